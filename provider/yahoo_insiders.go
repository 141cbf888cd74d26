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
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stockdash/mdsync/data"
	"github.com/stockdash/mdsync/reconcile"
	"github.com/stockdash/mdsync/store"
	"github.com/stockdash/mdsync/symbols"
)

const (
	insiderLookbackDays = 180

	defaultInsiderBatch = 25
)

func syncInsiderTrades(ctx context.Context, myStore *store.Store, cfg RunConfig) (*data.RunSummary, error) {
	summary := data.NewRunSummary(data.InsiderTradesKey, cfg.RunDate)

	companies, err := myStore.ActiveCompanies(ctx, cfg.Limit)
	if err != nil {
		return nil, err
	}

	symbols.LoadCache(ctx, companies)
	client, limiter := yahooClient()
	loc := marketTZ()

	since := cfg.RunDate.AddDate(0, 0, -insiderLookbackDays)

	for _, batch := range store.Chunk(companies, cfg.BatchSizeOr(defaultInsiderBatch)) {
		codes := make([]string, 0, len(batch))
		incoming := make([]*data.InsiderTrade, 0, len(batch)*4)

		for _, company := range batch {
			code, ok := company.Key()
			if !ok {
				continue
			}

			symbol, ok := symbols.Lookup(code)
			if !ok {
				continue
			}

			result, err := fetchQuoteSummary(ctx, client, limiter, symbol, "insiderTransactions")
			if err != nil {
				log.Error().Err(err).Str("CompanyCode", code).Str("Symbol", symbol).
					Msg("insider transaction fetch failed, skipping company")
				summary.Errors++
				continue
			}

			codes = append(codes, code)

			if result.InsiderTransactions == nil {
				continue
			}

			for _, txn := range result.InsiderTransactions.Transactions {
				trade := tradeRow(code, company.Name, txn, loc)
				if trade.Date.Before(since) {
					continue
				}
				incoming = append(incoming, trade)
			}
		}

		if len(incoming) == 0 {
			continue
		}

		existing, err := myStore.ExistingInsiderTrades(ctx, codes, since)
		if err != nil {
			log.Error().Err(err).Msg("loading existing insider trades failed, skipping batch")
			summary.Errors += len(incoming)
			continue
		}

		writeBatch(ctx, myStore, data.DataTypes[data.InsiderTradesKey].Table,
			reconcile.Records(existing, incoming), summary)
	}

	return summary.Finish(), nil
}

func tradeRow(code, name string, txn insiderTransaction, loc *time.Location) *data.InsiderTrade {
	return &data.InsiderTrade{
		Code:        code,
		Name:        name,
		Date:        txn.StartDate.Time(loc),
		Insider:     txn.FilerName,
		Position:    txn.FilerRelation,
		Transaction: classifyTransaction(txn.TransactionText),
		Shares:      txn.Shares.Int64(),
		Value:       txn.Value.Decimal(),
		Ownership:   txn.Ownership,
	}
}

// classifyTransaction maps the free-form transaction text to a stable
// buy/sell/other label so re-fetches of the same disclosure key
// identically.
func classifyTransaction(text string) string {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "purchase") || strings.Contains(lower, "buy"):
		return "buy"
	case strings.Contains(lower, "sale") || strings.Contains(lower, "sell"):
		return "sell"
	case text == "":
		return ""
	default:
		return "other"
	}
}
