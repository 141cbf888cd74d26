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

type InsiderKey struct {
	Code        string
	Date        string
	Insider     string
	Transaction string
}

// InsiderTrade is one disclosed insider transaction.
type InsiderTrade struct {
	Code        string           `db:"company_code" csv:"company_code"`
	Name        string           `db:"company_name" csv:"company_name"`
	Date        time.Time        `db:"event_date" csv:"event_date"`
	Insider     string           `db:"insider" csv:"insider"`
	Position    string           `db:"position" csv:"position"`
	Transaction string           `db:"transaction" csv:"transaction"`
	Shares      *int64           `db:"shares" csv:"shares"`
	Value       *decimal.Decimal `db:"value" csv:"value"`
	Ownership   string           `db:"ownership" csv:"ownership"`
}

func (trade *InsiderTrade) Key() (InsiderKey, bool) {
	if !reconcile.ValidCode(trade.Code) || trade.Date.IsZero() ||
		!reconcile.ValidCode(trade.Insider) || !reconcile.ValidCode(trade.Transaction) {
		return InsiderKey{}, false
	}

	return InsiderKey{
		Code:        trade.Code,
		Date:        trade.Date.Format(DateOnly),
		Insider:     trade.Insider,
		Transaction: trade.Transaction,
	}, true
}

func (trade *InsiderTrade) Changed(old *InsiderTrade) bool {
	return reconcile.Int64Changed(old.Shares, trade.Shares) ||
		reconcile.NumericChanged(old.Value, trade.Value) ||
		reconcile.StringChanged(old.Position, trade.Position) ||
		reconcile.StringChanged(old.Ownership, trade.Ownership)
}

func (trade *InsiderTrade) Merge(old *InsiderTrade) *InsiderTrade {
	merged := *trade
	merged.Shares = reconcile.MergeInt64(old.Shares, trade.Shares)
	merged.Value = reconcile.MergeNumeric(old.Value, trade.Value)
	merged.Position = reconcile.MergeString(old.Position, trade.Position)
	merged.Ownership = reconcile.MergeString(old.Ownership, trade.Ownership)
	return &merged
}

func (trade *InsiderTrade) UpsertSQL(tbl string) string {
	return `INSERT INTO ` + tbl + ` (
	"company_code",
	"company_name",
	"event_date",
	"insider",
	"position",
	"transaction",
	"shares",
	"value",
	"ownership",
	"last_modified"
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
) ON CONFLICT (company_code, event_date, insider, transaction) DO UPDATE SET
	position = COALESCE(NULLIF(EXCLUDED.position, ''), ` + tbl + `.position),
	shares = COALESCE(EXCLUDED.shares, ` + tbl + `.shares),
	value = COALESCE(EXCLUDED.value, ` + tbl + `.value),
	ownership = COALESCE(NULLIF(EXCLUDED.ownership, ''), ` + tbl + `.ownership),
	last_modified = EXCLUDED.last_modified`
}

func (trade *InsiderTrade) UpsertArgs(runDate time.Time) []any {
	return []any{
		trade.Code, trade.Name, trade.Date, trade.Insider, trade.Position,
		trade.Transaction, trade.Shares, trade.Value, trade.Ownership, runDate,
	}
}
