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
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stockdash/mdsync/data"
	"github.com/stockdash/mdsync/reconcile"
	"github.com/stockdash/mdsync/store"
	"github.com/stockdash/mdsync/symbols"
)

const (
	defaultStatementBatch = 25

	// reported periods older than this never change
	statementLookbackYears = 6
)

func syncStatements(ctx context.Context, myStore *store.Store, cfg RunConfig) (*data.RunSummary, error) {
	summary := data.NewRunSummary(data.StatementsKey, cfg.RunDate)

	companies, err := myStore.ActiveCompanies(ctx, cfg.Limit)
	if err != nil {
		return nil, err
	}

	symbols.LoadCache(ctx, companies)
	client, limiter := yahooClient()
	loc := marketTZ()

	since := cfg.RunDate.AddDate(-statementLookbackYears, 0, 0)
	until := cfg.RunDate.AddDate(0, 0, 1)

	for _, batch := range store.Chunk(companies, cfg.BatchSizeOr(defaultStatementBatch)) {
		codes := make([]string, 0, len(batch))
		incoming := make([]*data.Statement, 0, len(batch)*8)

		for _, company := range batch {
			code, ok := company.Key()
			if !ok {
				continue
			}

			symbol, ok := symbols.Lookup(code)
			if !ok {
				continue
			}

			result, err := fetchQuoteSummary(ctx, client, limiter, symbol,
				"incomeStatementHistory,incomeStatementHistoryQuarterly")
			if err != nil {
				log.Error().Err(err).Str("CompanyCode", code).Str("Symbol", symbol).
					Msg("financial statement fetch failed, skipping company")
				summary.Errors++
				continue
			}

			codes = append(codes, code)

			// per-share figures live in a separate endpoint; a failed
			// fetch leaves EPS null rather than dropping the statement
			eps, err := fetchBasicEPS(ctx, client, limiter, symbol, since, until)
			if err != nil {
				log.Warn().Err(err).Str("CompanyCode", code).Str("Symbol", symbol).
					Msg("basic EPS fetch failed, statements will carry null eps")
			}

			if result.IncomeStatementHistory != nil {
				for _, stmt := range result.IncomeStatementHistory.Statements {
					if row := statementRow(code, company.Name, data.Annual, stmt, loc, eps); row != nil {
						incoming = append(incoming, row)
					}
				}
			}

			if result.IncomeStatementHistoryQuarterly != nil {
				for _, stmt := range result.IncomeStatementHistoryQuarterly.Statements {
					if row := statementRow(code, company.Name, data.Quarterly, stmt, loc, eps); row != nil {
						incoming = append(incoming, row)
					}
				}
			}
		}

		if len(incoming) == 0 {
			continue
		}

		existing, err := myStore.ExistingStatements(ctx, codes)
		if err != nil {
			log.Error().Err(err).Msg("loading existing statements failed, skipping batch")
			summary.Errors += len(incoming)
			continue
		}

		writeBatch(ctx, myStore, data.DataTypes[data.StatementsKey].Table,
			reconcile.Records(existing, incoming), summary)
	}

	return summary.Finish(), nil
}

// statementRow builds one statement from a reported period. Annual
// periods are keyed by the calendar year of the period end date
// ("2024"), quarterly ones by its calendar quarter ("2024-Q3"), NOT the
// fiscal quarter number: an Indian Q1FY period ending in June is keyed
// "YYYY-Q2". Periods without an end date are dropped.
func statementRow(code, name string, kind data.StatementKind, stmt incomeStatement,
	loc *time.Location, eps basicEPS) *data.Statement {
	endDate := stmt.EndDate.Time(loc)
	if endDate.IsZero() {
		return nil
	}

	period := fmt.Sprintf("%d", endDate.Year())
	if kind == data.Quarterly {
		period = fmt.Sprintf("%d-Q%d", endDate.Year(), (int(endDate.Month())+2)/3)
	}

	return &data.Statement{
		Code:      code,
		Name:      name,
		Period:    period,
		Kind:      kind,
		Revenue:   stmt.TotalRevenue.Decimal(),
		NetProfit: stmt.NetIncome.Decimal(),
		EPS:       eps.forPeriod(kind, endDate.Format(data.DateOnly)),
	}
}
