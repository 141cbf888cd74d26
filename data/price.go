// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package data

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockdash/mdsync/reconcile"
)

type PriceKey struct {
	Code string
	Date string
}

// Price is one daily OHLCV bar for a company.
type Price struct {
	Code     string           `db:"company_code" csv:"company_code"`
	Name     string           `db:"company_name" csv:"company_name"`
	Date     time.Time        `db:"event_date" csv:"event_date"`
	Open     *decimal.Decimal `db:"open" csv:"open"`
	High     *decimal.Decimal `db:"high" csv:"high"`
	Low      *decimal.Decimal `db:"low" csv:"low"`
	Close    *decimal.Decimal `db:"close" csv:"close"`
	Volume   *int64           `db:"volume" csv:"volume"`
	AdjClose *decimal.Decimal `db:"adj_close" csv:"adj_close"`
}

func (price *Price) Key() (PriceKey, bool) {
	if !reconcile.ValidCode(price.Code) || price.Date.IsZero() {
		return PriceKey{}, false
	}

	return PriceKey{Code: price.Code, Date: price.Date.Format(DateOnly)}, true
}

// Empty reports whether every quoted field is null; such bars carry no
// information and are not worth storing.
func (price *Price) Empty() bool {
	return price.Open == nil && price.High == nil && price.Low == nil &&
		price.Close == nil && price.Volume == nil
}

func (price *Price) Changed(old *Price) bool {
	return reconcile.NumericChanged(old.Open, price.Open) ||
		reconcile.NumericChanged(old.High, price.High) ||
		reconcile.NumericChanged(old.Low, price.Low) ||
		reconcile.NumericChanged(old.Close, price.Close) ||
		reconcile.Int64Changed(old.Volume, price.Volume) ||
		reconcile.NumericChanged(old.AdjClose, price.AdjClose)
}

func (price *Price) Merge(old *Price) *Price {
	merged := *price
	merged.Open = reconcile.MergeNumeric(old.Open, price.Open)
	merged.High = reconcile.MergeNumeric(old.High, price.High)
	merged.Low = reconcile.MergeNumeric(old.Low, price.Low)
	merged.Close = reconcile.MergeNumeric(old.Close, price.Close)
	merged.Volume = reconcile.MergeInt64(old.Volume, price.Volume)
	merged.AdjClose = reconcile.MergeNumeric(old.AdjClose, price.AdjClose)
	return &merged
}

func (price *Price) UpsertSQL(tbl string) string {
	return `INSERT INTO ` + tbl + ` (
	"company_code",
	"company_name",
	"event_date",
	"open",
	"high",
	"low",
	"close",
	"volume",
	"adj_close",
	"last_modified"
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
) ON CONFLICT (company_code, event_date) DO UPDATE SET
	open = COALESCE(EXCLUDED.open, ` + tbl + `.open),
	high = COALESCE(EXCLUDED.high, ` + tbl + `.high),
	low = COALESCE(EXCLUDED.low, ` + tbl + `.low),
	close = COALESCE(EXCLUDED.close, ` + tbl + `.close),
	volume = COALESCE(EXCLUDED.volume, ` + tbl + `.volume),
	adj_close = COALESCE(EXCLUDED.adj_close, ` + tbl + `.adj_close),
	last_modified = EXCLUDED.last_modified`
}

func (price *Price) UpsertArgs(runDate time.Time) []any {
	return []any{
		price.Code, price.Name, price.Date, price.Open, price.High, price.Low,
		price.Close, price.Volume, price.AdjClose, runDate,
	}
}
