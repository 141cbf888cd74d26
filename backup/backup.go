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

// Package backup exports every dataset table to a compressed CSV and
// optionally ships the files to off-site storage.
package backup

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/gocarina/gocsv"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"github.com/stockdash/mdsync/data"
	"github.com/stockdash/mdsync/store"
)

// exporters load the full contents of one table in CSV column order.
var exporters = map[string]func(context.Context, *store.Store) (any, error){
	data.CompaniesKey: func(ctx context.Context, myStore *store.Store) (any, error) {
		var rows []*data.Company
		err := pgxscan.Select(ctx, myStore.Pool, &rows,
			`SELECT company_code, name, nse_code, bse_code, industry, exchange,
current_price, market_capitalization, sales, profit_after_tax, opm, eps,
return_on_capital_employed, debt, reserves, price_to_earning, dividend_yield,
book_value, promoter_holding, listing_date FROM companies ORDER BY company_code`)
		return rows, err
	},
	data.PricesKey: func(ctx context.Context, myStore *store.Store) (any, error) {
		var rows []*data.Price
		err := pgxscan.Select(ctx, myStore.Pool, &rows,
			`SELECT company_code, company_name, event_date, open, high, low, close,
volume, adj_close FROM prices ORDER BY company_code, event_date`)
		return rows, err
	},
	data.ActionsKey: func(ctx context.Context, myStore *store.Store) (any, error) {
		var rows []*data.CorporateAction
		err := pgxscan.Select(ctx, myStore.Pool, &rows,
			`SELECT company_code, company_name, event_date, action_type, details
FROM corporate_actions ORDER BY company_code, event_date`)
		return rows, err
	},
	data.StatementsKey: func(ctx context.Context, myStore *store.Store) (any, error) {
		var rows []*data.Statement
		err := pgxscan.Select(ctx, myStore.Pool, &rows,
			`SELECT company_code, company_name, period, kind, revenue, net_profit, eps
FROM financial_statements ORDER BY company_code, period`)
		return rows, err
	},
	data.HoldersKey: func(ctx context.Context, myStore *store.Store) (any, error) {
		var rows []*data.Holder
		err := pgxscan.Select(ctx, myStore.Pool, &rows,
			`SELECT company_code, company_name, event_date, holder_name, holder_type,
shares_held, percentage_held, value, currency FROM holders
ORDER BY company_code, event_date`)
		return rows, err
	},
	data.OptionsKey: func(ctx context.Context, myStore *store.Store) (any, error) {
		var rows []*data.OptionContract
		err := pgxscan.Select(ctx, myStore.Pool, &rows,
			`SELECT company_code, expiry, strike, option_type, last_price, bid, ask,
volume, open_interest, implied_volatility FROM option_contracts
ORDER BY company_code, expiry, strike`)
		return rows, err
	},
	data.IndicesKey: func(ctx context.Context, myStore *store.Store) (any, error) {
		var rows []*data.MarketIndex
		err := pgxscan.Select(ctx, myStore.Pool, &rows,
			`SELECT ticker, name, region, description FROM indices ORDER BY ticker`)
		return rows, err
	},
	data.IndexPricesKey: func(ctx context.Context, myStore *store.Store) (any, error) {
		var rows []*data.IndexPrice
		err := pgxscan.Select(ctx, myStore.Pool, &rows,
			`SELECT ticker, name, event_date, open, high, low, close, volume
FROM index_prices ORDER BY ticker, event_date`)
		return rows, err
	},
	data.InsiderTradesKey: func(ctx context.Context, myStore *store.Store) (any, error) {
		var rows []*data.InsiderTrade
		err := pgxscan.Select(ctx, myStore.Pool, &rows,
			`SELECT company_code, company_name, event_date, insider, position,
transaction, shares, value, ownership FROM insider_trades
ORDER BY company_code, event_date`)
		return rows, err
	},
}

// FileName builds the export filename for one table on one date.
func FileName(tbl string, asOf time.Time) string {
	return fmt.Sprintf("%s-%s.csv.gz", slug.Make(tbl), asOf.Format("20060102"))
}

// ExportTable writes one table to a gzipped CSV under destDir and
// returns the file path.
func ExportTable(ctx context.Context, myStore *store.Store, dataset, destDir string, asOf time.Time) (string, error) {
	exporter, ok := exporters[dataset]
	if !ok {
		return "", fmt.Errorf("unknown dataset %q", dataset)
	}

	rows, err := exporter(ctx, myStore)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", dataset, err)
	}

	outName := filepath.Join(destDir, FileName(data.DataTypes[dataset].Table, asOf))

	fh, err := os.Create(outName)
	if err != nil {
		return "", err
	}
	defer fh.Close()

	gz := gzip.NewWriter(fh)
	if err := gocsv.Marshal(rows, gz); err != nil {
		gz.Close()
		return "", fmt.Errorf("write %s: %w", outName, err)
	}

	return outName, gz.Close()
}

// Run exports every dataset table. Tables that fail are logged and
// skipped; the returned slice holds the files that were written.
func Run(ctx context.Context, myStore *store.Store, destDir string, asOf time.Time) []string {
	files := make([]string, 0, len(exporters))

	for dataset := range data.DataTypes {
		outName, err := ExportTable(ctx, myStore, dataset, destDir, asOf)
		if err != nil {
			log.Error().Err(err).Str("Dataset", dataset).Msg("table export failed, skipping")
			continue
		}

		log.Info().Str("FileName", outName).Str("Dataset", dataset).Msg("exported table")
		files = append(files, outName)
	}

	return files
}
