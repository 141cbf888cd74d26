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

type StatementKind string

const (
	Annual    StatementKind = "annual"
	Quarterly StatementKind = "quarterly"
)

type StatementKey struct {
	Code   string
	Period string
	Kind   StatementKind
}

// Statement is one reported financial period for a company. Period is
// "2024" for annual filings and "2024-Q3" for quarterly ones.
type Statement struct {
	Code      string           `db:"company_code" csv:"company_code"`
	Name      string           `db:"company_name" csv:"company_name"`
	Period    string           `db:"period" csv:"period"`
	Kind      StatementKind    `db:"kind" csv:"kind"`
	Revenue   *decimal.Decimal `db:"revenue" csv:"revenue"`
	NetProfit *decimal.Decimal `db:"net_profit" csv:"net_profit"`
	EPS       *decimal.Decimal `db:"eps" csv:"eps"`
}

func (statement *Statement) Key() (StatementKey, bool) {
	if !reconcile.ValidCode(statement.Code) || !reconcile.ValidCode(statement.Period) || statement.Kind == "" {
		return StatementKey{}, false
	}

	return StatementKey{
		Code:   statement.Code,
		Period: statement.Period,
		Kind:   statement.Kind,
	}, true
}

func (statement *Statement) Changed(old *Statement) bool {
	return reconcile.NumericChanged(old.Revenue, statement.Revenue) ||
		reconcile.NumericChanged(old.NetProfit, statement.NetProfit) ||
		reconcile.NumericChanged(old.EPS, statement.EPS)
}

func (statement *Statement) Merge(old *Statement) *Statement {
	merged := *statement
	merged.Revenue = reconcile.MergeNumeric(old.Revenue, statement.Revenue)
	merged.NetProfit = reconcile.MergeNumeric(old.NetProfit, statement.NetProfit)
	merged.EPS = reconcile.MergeNumeric(old.EPS, statement.EPS)
	return &merged
}

func (statement *Statement) UpsertSQL(tbl string) string {
	return `INSERT INTO ` + tbl + ` (
	"company_code",
	"company_name",
	"period",
	"kind",
	"revenue",
	"net_profit",
	"eps",
	"last_modified"
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8
) ON CONFLICT (company_code, period, kind) DO UPDATE SET
	revenue = COALESCE(EXCLUDED.revenue, ` + tbl + `.revenue),
	net_profit = COALESCE(EXCLUDED.net_profit, ` + tbl + `.net_profit),
	eps = COALESCE(EXCLUDED.eps, ` + tbl + `.eps),
	last_modified = EXCLUDED.last_modified`
}

func (statement *Statement) UpsertArgs(runDate time.Time) []any {
	return []any{
		statement.Code, statement.Name, statement.Period, statement.Kind,
		statement.Revenue, statement.NetProfit, statement.EPS, runDate,
	}
}
