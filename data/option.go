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

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

type OptionKey struct {
	Code   string
	Expiry string
	Strike string
	Type   OptionType
}

// OptionContract is one listed option series snapshot. Strikes are keyed
// at two decimal places so 100 and 100.00 collapse to the same contract.
type OptionContract struct {
	Code              string           `db:"company_code" csv:"company_code"`
	Expiry            time.Time        `db:"expiry" csv:"expiry"`
	Strike            decimal.Decimal  `db:"strike" csv:"strike"`
	Type              OptionType       `db:"option_type" csv:"option_type"`
	LastPrice         *decimal.Decimal `db:"last_price" csv:"last_price"`
	Bid               *decimal.Decimal `db:"bid" csv:"bid"`
	Ask               *decimal.Decimal `db:"ask" csv:"ask"`
	Volume            *int64           `db:"volume" csv:"volume"`
	OpenInterest      *int64           `db:"open_interest" csv:"open_interest"`
	ImpliedVolatility *decimal.Decimal `db:"implied_volatility" csv:"implied_volatility"`
}

func (contract *OptionContract) Key() (OptionKey, bool) {
	if !reconcile.ValidCode(contract.Code) || contract.Expiry.IsZero() ||
		contract.Type == "" || contract.Strike.IsZero() {
		return OptionKey{}, false
	}

	return OptionKey{
		Code:   contract.Code,
		Expiry: contract.Expiry.Format(DateOnly),
		Strike: contract.Strike.StringFixed(2),
		Type:   contract.Type,
	}, true
}

func (contract *OptionContract) Changed(old *OptionContract) bool {
	return reconcile.NumericChanged(old.LastPrice, contract.LastPrice) ||
		reconcile.NumericChanged(old.Bid, contract.Bid) ||
		reconcile.NumericChanged(old.Ask, contract.Ask) ||
		reconcile.Int64Changed(old.Volume, contract.Volume) ||
		reconcile.Int64Changed(old.OpenInterest, contract.OpenInterest) ||
		reconcile.NumericChanged(old.ImpliedVolatility, contract.ImpliedVolatility)
}

func (contract *OptionContract) Merge(old *OptionContract) *OptionContract {
	merged := *contract
	merged.LastPrice = reconcile.MergeNumeric(old.LastPrice, contract.LastPrice)
	merged.Bid = reconcile.MergeNumeric(old.Bid, contract.Bid)
	merged.Ask = reconcile.MergeNumeric(old.Ask, contract.Ask)
	merged.Volume = reconcile.MergeInt64(old.Volume, contract.Volume)
	merged.OpenInterest = reconcile.MergeInt64(old.OpenInterest, contract.OpenInterest)
	merged.ImpliedVolatility = reconcile.MergeNumeric(old.ImpliedVolatility, contract.ImpliedVolatility)
	return &merged
}

func (contract *OptionContract) UpsertSQL(tbl string) string {
	return `INSERT INTO ` + tbl + ` (
	"company_code",
	"expiry",
	"strike",
	"option_type",
	"last_price",
	"bid",
	"ask",
	"volume",
	"open_interest",
	"implied_volatility",
	"last_modified"
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
) ON CONFLICT (company_code, expiry, strike, option_type) DO UPDATE SET
	last_price = COALESCE(EXCLUDED.last_price, ` + tbl + `.last_price),
	bid = COALESCE(EXCLUDED.bid, ` + tbl + `.bid),
	ask = COALESCE(EXCLUDED.ask, ` + tbl + `.ask),
	volume = COALESCE(EXCLUDED.volume, ` + tbl + `.volume),
	open_interest = COALESCE(EXCLUDED.open_interest, ` + tbl + `.open_interest),
	implied_volatility = COALESCE(EXCLUDED.implied_volatility, ` + tbl + `.implied_volatility),
	last_modified = EXCLUDED.last_modified`
}

func (contract *OptionContract) UpsertArgs(runDate time.Time) []any {
	return []any{
		contract.Code, contract.Expiry, contract.Strike, contract.Type,
		contract.LastPrice, contract.Bid, contract.Ask, contract.Volume,
		contract.OpenInterest, contract.ImpliedVolatility, runDate,
	}
}
