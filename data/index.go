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

// MarketIndex is the metadata row for a tracked index (Nifty 50, Sensex,
// S&P 500, ...). Ticker is the quote symbol, e.g. ^NSEI.
type MarketIndex struct {
	Ticker      string `db:"ticker" csv:"ticker"`
	Name        string `db:"name" csv:"name"`
	Region      string `db:"region" csv:"region"`
	Description string `db:"description" csv:"description"`
}

func (index *MarketIndex) Key() (string, bool) {
	if !reconcile.ValidCode(index.Ticker) {
		return "", false
	}

	return index.Ticker, true
}

func (index *MarketIndex) Changed(old *MarketIndex) bool {
	return reconcile.StringChanged(old.Name, index.Name) ||
		reconcile.StringChanged(old.Region, index.Region) ||
		reconcile.StringChanged(old.Description, index.Description)
}

func (index *MarketIndex) Merge(old *MarketIndex) *MarketIndex {
	merged := *index
	merged.Name = reconcile.MergeString(old.Name, index.Name)
	merged.Region = reconcile.MergeString(old.Region, index.Region)
	merged.Description = reconcile.MergeString(old.Description, index.Description)
	return &merged
}

func (index *MarketIndex) UpsertSQL(tbl string) string {
	return `INSERT INTO ` + tbl + ` (
	"ticker",
	"name",
	"region",
	"description",
	"last_modified"
) VALUES (
	$1, $2, $3, $4, $5
) ON CONFLICT (ticker) DO UPDATE SET
	name = COALESCE(NULLIF(EXCLUDED.name, ''), ` + tbl + `.name),
	region = COALESCE(NULLIF(EXCLUDED.region, ''), ` + tbl + `.region),
	description = COALESCE(NULLIF(EXCLUDED.description, ''), ` + tbl + `.description),
	last_modified = EXCLUDED.last_modified`
}

func (index *MarketIndex) UpsertArgs(runDate time.Time) []any {
	return []any{index.Ticker, index.Name, index.Region, index.Description, runDate}
}

type IndexPriceKey struct {
	Ticker string
	Date   string
}

// IndexPrice is one daily bar for an index.
type IndexPrice struct {
	Ticker string           `db:"ticker" csv:"ticker"`
	Name   string           `db:"name" csv:"name"`
	Date   time.Time        `db:"event_date" csv:"event_date"`
	Open   *decimal.Decimal `db:"open" csv:"open"`
	High   *decimal.Decimal `db:"high" csv:"high"`
	Low    *decimal.Decimal `db:"low" csv:"low"`
	Close  *decimal.Decimal `db:"close" csv:"close"`
	Volume *int64           `db:"volume" csv:"volume"`
}

func (price *IndexPrice) Key() (IndexPriceKey, bool) {
	if !reconcile.ValidCode(price.Ticker) || price.Date.IsZero() {
		return IndexPriceKey{}, false
	}

	return IndexPriceKey{Ticker: price.Ticker, Date: price.Date.Format(DateOnly)}, true
}

func (price *IndexPrice) Changed(old *IndexPrice) bool {
	return reconcile.NumericChanged(old.Open, price.Open) ||
		reconcile.NumericChanged(old.High, price.High) ||
		reconcile.NumericChanged(old.Low, price.Low) ||
		reconcile.NumericChanged(old.Close, price.Close) ||
		reconcile.Int64Changed(old.Volume, price.Volume)
}

func (price *IndexPrice) Merge(old *IndexPrice) *IndexPrice {
	merged := *price
	merged.Open = reconcile.MergeNumeric(old.Open, price.Open)
	merged.High = reconcile.MergeNumeric(old.High, price.High)
	merged.Low = reconcile.MergeNumeric(old.Low, price.Low)
	merged.Close = reconcile.MergeNumeric(old.Close, price.Close)
	merged.Volume = reconcile.MergeInt64(old.Volume, price.Volume)
	return &merged
}

func (price *IndexPrice) UpsertSQL(tbl string) string {
	return `INSERT INTO ` + tbl + ` (
	"ticker",
	"name",
	"event_date",
	"open",
	"high",
	"low",
	"close",
	"volume",
	"last_modified"
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9
) ON CONFLICT (ticker, event_date) DO UPDATE SET
	open = COALESCE(EXCLUDED.open, ` + tbl + `.open),
	high = COALESCE(EXCLUDED.high, ` + tbl + `.high),
	low = COALESCE(EXCLUDED.low, ` + tbl + `.low),
	close = COALESCE(EXCLUDED.close, ` + tbl + `.close),
	volume = COALESCE(EXCLUDED.volume, ` + tbl + `.volume),
	last_modified = EXCLUDED.last_modified`
}

func (price *IndexPrice) UpsertArgs(runDate time.Time) []any {
	return []any{
		price.Ticker, price.Name, price.Date, price.Open, price.High,
		price.Low, price.Close, price.Volume, runDate,
	}
}
