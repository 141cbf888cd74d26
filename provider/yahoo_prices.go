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
	// short lookback so late exchange corrections to recent bars are
	// picked up on the next run
	priceLookbackDays = 3

	defaultPriceBatch = 50
)

func syncPrices(ctx context.Context, myStore *store.Store, cfg RunConfig) (*data.RunSummary, error) {
	summary := data.NewRunSummary(data.PricesKey, cfg.RunDate)

	companies, err := myStore.ActiveCompanies(ctx, cfg.Limit)
	if err != nil {
		return nil, err
	}

	symbols.LoadCache(ctx, companies)
	client, limiter := yahooClient()
	loc := marketTZ()

	since := cfg.RunDate.AddDate(0, 0, -priceLookbackDays)
	until := cfg.RunDate.AddDate(0, 0, 1)

	for _, batch := range store.Chunk(companies, cfg.BatchSizeOr(defaultPriceBatch)) {
		codes := make([]string, 0, len(batch))
		incoming := make([]*data.Price, 0, len(batch)*priceLookbackDays)

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
					Msg("price fetch failed, skipping company")
				summary.Errors++
				continue
			}

			codes = append(codes, code)
			incoming = append(incoming, pricesFromChart(code, company.Name, chart, chart.location(loc))...)
		}

		if len(incoming) == 0 {
			continue
		}

		existing, err := myStore.ExistingPrices(ctx, codes, since)
		if err != nil {
			log.Error().Err(err).Msg("loading existing prices failed, skipping batch")
			summary.Errors += len(incoming)
			continue
		}

		writeBatch(ctx, myStore, data.DataTypes[data.PricesKey].Table,
			reconcile.Records(existing, incoming), summary)
	}

	return summary.Finish(), nil
}
