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
)

const indexLookbackDays = 3

// trackedIndices is the fixed benchmark set; the indices table carries
// the authoritative metadata once rows exist, these are only seeds.
var trackedIndices = []*data.MarketIndex{
	{Ticker: "^NSEI", Name: "Nifty 50", Region: "India", Description: "NSE benchmark of the 50 largest Indian companies"},
	{Ticker: "^BSESN", Name: "Sensex", Region: "India", Description: "BSE benchmark of 30 large Indian companies"},
	{Ticker: "^NSEBANK", Name: "Nifty Bank", Region: "India", Description: "NSE banking sector index"},
	{Ticker: "^CNXIT", Name: "Nifty IT", Region: "India", Description: "NSE information technology sector index"},
	{Ticker: "^GSPC", Name: "S&P 500", Region: "United States", Description: "S&P benchmark of 500 large US companies"},
	{Ticker: "^IXIC", Name: "NASDAQ Composite", Region: "United States", Description: "All NASDAQ-listed common stocks"},
}

func syncIndexPrices(ctx context.Context, myStore *store.Store, cfg RunConfig) (*data.RunSummary, error) {
	summary := data.NewRunSummary(data.IndexPricesKey, cfg.RunDate)

	existingIndices, err := myStore.ExistingIndices(ctx)
	if err != nil {
		return nil, err
	}

	writeBatch(ctx, myStore, data.DataTypes[data.IndicesKey].Table,
		reconcile.Records(existingIndices, trackedIndices), summary)

	client, limiter := yahooClient()
	loc := marketTZ()

	since := cfg.RunDate.AddDate(0, 0, -indexLookbackDays)
	until := cfg.RunDate.AddDate(0, 0, 1)

	tickers := make([]string, 0, len(trackedIndices))
	incoming := make([]*data.IndexPrice, 0, len(trackedIndices)*indexLookbackDays)

	for _, index := range trackedIndices {
		chart, err := fetchChart(ctx, client, limiter, index.Ticker, since, until)
		if err != nil {
			log.Error().Err(err).Str("Ticker", index.Ticker).
				Msg("index price fetch failed, skipping index")
			summary.Errors++
			continue
		}

		tickers = append(tickers, index.Ticker)
		for _, price := range pricesFromChart(index.Ticker, index.Name, chart, chart.location(loc)) {
			incoming = append(incoming, &data.IndexPrice{
				Ticker: price.Code,
				Name:   price.Name,
				Date:   price.Date,
				Open:   price.Open,
				High:   price.High,
				Low:    price.Low,
				Close:  price.Close,
				Volume: price.Volume,
			})
		}
	}

	if len(incoming) == 0 {
		return summary.Finish(), nil
	}

	existing, err := myStore.ExistingIndexPrices(ctx, tickers, since)
	if err != nil {
		log.Error().Err(err).Msg("loading existing index prices failed")
		summary.Errors += len(incoming)
		return summary.Finish(), nil
	}

	writeBatch(ctx, myStore, data.DataTypes[data.IndexPricesKey].Table,
		reconcile.Records(existing, incoming), summary)

	return summary.Finish(), nil
}
