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

type HolderType string

const (
	Institutional HolderType = "institutional"
	MutualFundCo  HolderType = "mutual_fund"
	Major         HolderType = "major"
)

type HolderKey struct {
	Code       string
	Date       string
	HolderName string
	HolderType HolderType
}

// Holder is one reported position in a company as of a disclosure date.
type Holder struct {
	Code           string           `db:"company_code" csv:"company_code"`
	Name           string           `db:"company_name" csv:"company_name"`
	Date           time.Time        `db:"event_date" csv:"event_date"`
	HolderName     string           `db:"holder_name" csv:"holder_name"`
	HolderType     HolderType       `db:"holder_type" csv:"holder_type"`
	SharesHeld     *int64           `db:"shares_held" csv:"shares_held"`
	PercentageHeld *decimal.Decimal `db:"percentage_held" csv:"percentage_held"`
	Value          *decimal.Decimal `db:"value" csv:"value"`
	Currency       string           `db:"currency" csv:"currency"`
}

func (holder *Holder) Key() (HolderKey, bool) {
	if !reconcile.ValidCode(holder.Code) || holder.Date.IsZero() ||
		!reconcile.ValidCode(holder.HolderName) || holder.HolderType == "" {
		return HolderKey{}, false
	}

	return HolderKey{
		Code:       holder.Code,
		Date:       holder.Date.Format(DateOnly),
		HolderName: holder.HolderName,
		HolderType: holder.HolderType,
	}, true
}

func (holder *Holder) Changed(old *Holder) bool {
	return reconcile.Int64Changed(old.SharesHeld, holder.SharesHeld) ||
		reconcile.NumericChanged(old.PercentageHeld, holder.PercentageHeld) ||
		reconcile.NumericChanged(old.Value, holder.Value) ||
		reconcile.StringChanged(old.Currency, holder.Currency)
}

func (holder *Holder) Merge(old *Holder) *Holder {
	merged := *holder
	merged.SharesHeld = reconcile.MergeInt64(old.SharesHeld, holder.SharesHeld)
	merged.PercentageHeld = reconcile.MergeNumeric(old.PercentageHeld, holder.PercentageHeld)
	merged.Value = reconcile.MergeNumeric(old.Value, holder.Value)
	merged.Currency = reconcile.MergeString(old.Currency, holder.Currency)
	return &merged
}

func (holder *Holder) UpsertSQL(tbl string) string {
	return `INSERT INTO ` + tbl + ` (
	"company_code",
	"company_name",
	"event_date",
	"holder_name",
	"holder_type",
	"shares_held",
	"percentage_held",
	"value",
	"currency",
	"last_modified"
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
) ON CONFLICT (company_code, event_date, holder_name, holder_type) DO UPDATE SET
	shares_held = COALESCE(EXCLUDED.shares_held, ` + tbl + `.shares_held),
	percentage_held = COALESCE(EXCLUDED.percentage_held, ` + tbl + `.percentage_held),
	value = COALESCE(EXCLUDED.value, ` + tbl + `.value),
	currency = COALESCE(NULLIF(EXCLUDED.currency, ''), ` + tbl + `.currency),
	last_modified = EXCLUDED.last_modified`
}

func (holder *Holder) UpsertArgs(runDate time.Time) []any {
	return []any{
		holder.Code, holder.Name, holder.Date, holder.HolderName,
		holder.HolderType, holder.SharesHeld, holder.PercentageHeld,
		holder.Value, holder.Currency, runDate,
	}
}
