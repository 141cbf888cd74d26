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

	"github.com/rs/zerolog/log"
	"github.com/stockdash/mdsync/data"
	"github.com/stockdash/mdsync/reconcile"
	"github.com/stockdash/mdsync/store"
	"github.com/stockdash/mdsync/symbols"
)

const (
	// actions are announced well before the ex-date, so look further back
	// than the price sync does
	actionLookbackDays = 90

	defaultActionBatch = 50
)

func syncActions(ctx context.Context, myStore *store.Store, cfg RunConfig) (*data.RunSummary, error) {
	summary := data.NewRunSummary(data.ActionsKey, cfg.RunDate)

	companies, err := myStore.ActiveCompanies(ctx, cfg.Limit)
	if err != nil {
		return nil, err
	}

	symbols.LoadCache(ctx, companies)
	client, limiter := yahooClient()
	loc := marketTZ()

	since := cfg.RunDate.AddDate(0, 0, -actionLookbackDays)
	until := cfg.RunDate.AddDate(0, 0, 1)

	for _, batch := range store.Chunk(companies, cfg.BatchSizeOr(defaultActionBatch)) {
		codes := make([]string, 0, len(batch))
		incoming := make([]*data.CorporateAction, 0, len(batch))

		for _, company := range batch {
			code, ok := company.Key()
			if !ok {
				continue
			}

			symbol, ok := symbols.Lookup(code)
			if !ok {
				continue
			}

			chart, err := fetchChart(ctx, client, limiter, symbol, since, until)
			if err != nil {
				log.Error().Err(err).Str("CompanyCode", code).Str("Symbol", symbol).
					Msg("corporate action fetch failed, skipping company")
				summary.Errors++
				continue
			}

			codes = append(codes, code)
			incoming = append(incoming, actionsFromChart(code, company.Name, chart, chart.location(loc))...)
		}

		if len(incoming) == 0 {
			continue
		}

		existing, err := myStore.ExistingActions(ctx, codes, since)
		if err != nil {
			log.Error().Err(err).Msg("loading existing corporate actions failed, skipping batch")
			summary.Errors += len(incoming)
			continue
		}

		writeBatch(ctx, myStore, data.DataTypes[data.ActionsKey].Table,
			reconcile.Records(existing, incoming), summary)
	}

	return summary.Finish(), nil
}
