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
package store

import (
	"context"
	"strconv"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/stockdash/mdsync/data"
)

// Snapshot readers. Each returns the persisted rows keyed by natural key
// so the reconciler can diff an incoming batch against them. Callers
// scope the query (code list, date range) to the batch being reconciled;
// these are one-shot queries, not live cursors.

func keyed[K comparable, R any](rows []R, keyOf func(R) (K, bool)) map[K]R {
	existing := make(map[K]R, len(rows))
	for _, row := range rows {
		if key, ok := keyOf(row); ok {
			existing[key] = row
		}
	}
	return existing
}

// ActiveCompanies lists companies with a valid unified code. A limit of
// 0 means no limit; the CLI --limit flag caps the run for testing.
func (myStore *Store) ActiveCompanies(ctx context.Context, limit int) ([]*data.Company, error) {
	var companies []*data.Company
	sql := `SELECT company_code, name, nse_code, bse_code, industry, exchange,
current_price, market_capitalization, sales, profit_after_tax, opm, eps,
return_on_capital_employed, debt, reserves, price_to_earning, dividend_yield,
book_value, promoter_holding, listing_date
FROM companies WHERE company_code IS NOT NULL AND company_code != '' ORDER BY company_code`

	if limit > 0 {
		sql += ` LIMIT ` + strconv.Itoa(limit)
	}

	if err := pgxscan.Select(ctx, myStore.Pool, &companies, sql); err != nil {
		return nil, err
	}

	return companies, nil
}

func (myStore *Store) ExistingCompanies(ctx context.Context) (map[string]*data.Company, error) {
	companies, err := myStore.ActiveCompanies(ctx, 0)
	if err != nil {
		return nil, err
	}

	return keyed(companies, (*data.Company).Key), nil
}

func (myStore *Store) ExistingPrices(ctx context.Context, codes []string, since time.Time) (map[data.PriceKey]*data.Price, error) {
	var prices []*data.Price
	err := pgxscan.Select(ctx, myStore.Pool, &prices,
		`SELECT company_code, company_name, event_date, open, high, low, close, volume, adj_close
FROM prices WHERE company_code = ANY($1) AND event_date >= $2`, codes, since)
	if err != nil {
		return nil, err
	}

	return keyed(prices, (*data.Price).Key), nil
}

func (myStore *Store) ExistingActions(ctx context.Context, codes []string, since time.Time) (map[data.ActionKey]*data.CorporateAction, error) {
	var actions []*data.CorporateAction
	err := pgxscan.Select(ctx, myStore.Pool, &actions,
		`SELECT company_code, company_name, event_date, action_type, details
FROM corporate_actions WHERE company_code = ANY($1) AND event_date >= $2`, codes, since)
	if err != nil {
		return nil, err
	}

	return keyed(actions, (*data.CorporateAction).Key), nil
}

func (myStore *Store) ExistingStatements(ctx context.Context, codes []string) (map[data.StatementKey]*data.Statement, error) {
	var statements []*data.Statement
	err := pgxscan.Select(ctx, myStore.Pool, &statements,
		`SELECT company_code, company_name, period, kind, revenue, net_profit, eps
FROM financial_statements WHERE company_code = ANY($1)`, codes)
	if err != nil {
		return nil, err
	}

	return keyed(statements, (*data.Statement).Key), nil
}

func (myStore *Store) ExistingHolders(ctx context.Context, codes []string) (map[data.HolderKey]*data.Holder, error) {
	var holders []*data.Holder
	err := pgxscan.Select(ctx, myStore.Pool, &holders,
		`SELECT company_code, company_name, event_date, holder_name, holder_type,
shares_held, percentage_held, value, currency
FROM holders WHERE company_code = ANY($1)`, codes)
	if err != nil {
		return nil, err
	}

	return keyed(holders, (*data.Holder).Key), nil
}

func (myStore *Store) ExistingOptions(ctx context.Context, codes []string, expiringAfter time.Time) (map[data.OptionKey]*data.OptionContract, error) {
	var contracts []*data.OptionContract
	err := pgxscan.Select(ctx, myStore.Pool, &contracts,
		`SELECT company_code, expiry, strike, option_type, last_price, bid, ask,
volume, open_interest, implied_volatility
FROM option_contracts WHERE company_code = ANY($1) AND expiry >= $2`, codes, expiringAfter)
	if err != nil {
		return nil, err
	}

	return keyed(contracts, (*data.OptionContract).Key), nil
}

func (myStore *Store) ExistingIndices(ctx context.Context) (map[string]*data.MarketIndex, error) {
	var indices []*data.MarketIndex
	err := pgxscan.Select(ctx, myStore.Pool, &indices,
		`SELECT ticker, name, region, description FROM indices`)
	if err != nil {
		return nil, err
	}

	return keyed(indices, (*data.MarketIndex).Key), nil
}

func (myStore *Store) ExistingIndexPrices(ctx context.Context, tickers []string, since time.Time) (map[data.IndexPriceKey]*data.IndexPrice, error) {
	var prices []*data.IndexPrice
	err := pgxscan.Select(ctx, myStore.Pool, &prices,
		`SELECT ticker, name, event_date, open, high, low, close, volume
FROM index_prices WHERE ticker = ANY($1) AND event_date >= $2`, tickers, since)
	if err != nil {
		return nil, err
	}

	return keyed(prices, (*data.IndexPrice).Key), nil
}

func (myStore *Store) ExistingInsiderTrades(ctx context.Context, codes []string, since time.Time) (map[data.InsiderKey]*data.InsiderTrade, error) {
	var trades []*data.InsiderTrade
	err := pgxscan.Select(ctx, myStore.Pool, &trades,
		`SELECT company_code, company_name, event_date, insider, position,
transaction, shares, value, ownership
FROM insider_trades WHERE company_code = ANY($1) AND event_date >= $2`, codes, since)
	if err != nil {
		return nil, err
	}

	return keyed(trades, (*data.InsiderTrade).Key), nil
}
