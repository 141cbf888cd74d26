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

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stockdash/mdsync/data"
	"github.com/stockdash/mdsync/reconcile"
	"github.com/stockdash/mdsync/store"
	"github.com/stockdash/mdsync/symbols"
	"golang.org/x/time/rate"
)

const defaultOptionBatch = 25

type optionChainResponse struct {
	OptionChain struct {
		Result []optionChainResult `json:"result"`
		Error  *apiError           `json:"error"`
	} `json:"optionChain"`
}

type optionChainResult struct {
	UnderlyingSymbol string             `json:"underlyingSymbol"`
	ExpirationDates  []int64            `json:"expirationDates"`
	Options          []optionChainSlice `json:"options"`
}

type optionChainSlice struct {
	ExpirationDate int64         `json:"expirationDate"`
	Calls          []optionQuote `json:"calls"`
	Puts           []optionQuote `json:"puts"`
}

type optionQuote struct {
	Strike            float64  `json:"strike"`
	LastPrice         *float64 `json:"lastPrice"`
	Bid               *float64 `json:"bid"`
	Ask               *float64 `json:"ask"`
	Volume            *int64   `json:"volume"`
	OpenInterest      *int64   `json:"openInterest"`
	ImpliedVolatility *float64 `json:"impliedVolatility"`
	Expiration        int64    `json:"expiration"`
}

// fetchOptionChain downloads the nearest-expiry option chain for one
// symbol. Only the default expiry slice is requested; index and stock
// derivatives on NSE concentrate liquidity there.
func fetchOptionChain(ctx context.Context, client *resty.Client, limiter *rate.Limiter,
	symbol string) (*optionChainResult, error) {
	resp := optionChainResponse{}
	err := fetchJSON(ctx, client, limiter,
		fmt.Sprintf("/v7/finance/options/%s", symbol), nil, &resp)
	if err != nil {
		return nil, err
	}

	if resp.OptionChain.Error != nil {
		return nil, resp.OptionChain.Error
	}

	if len(resp.OptionChain.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoQuoteData, symbol)
	}

	return &resp.OptionChain.Result[0], nil
}

func syncOptions(ctx context.Context, myStore *store.Store, cfg RunConfig) (*data.RunSummary, error) {
	summary := data.NewRunSummary(data.OptionsKey, cfg.RunDate)

	companies, err := myStore.ActiveCompanies(ctx, cfg.Limit)
	if err != nil {
		return nil, err
	}

	symbols.LoadCache(ctx, companies)
	client, limiter := yahooClient()
	loc := marketTZ()

	for _, batch := range store.Chunk(companies, cfg.BatchSizeOr(defaultOptionBatch)) {
		codes := make([]string, 0, len(batch))
		incoming := make([]*data.OptionContract, 0, len(batch)*32)

		for _, company := range batch {
			code, ok := company.Key()
			if !ok {
				continue
			}

			symbol, ok := symbols.Lookup(code)
			if !ok {
				continue
			}

			chain, err := fetchOptionChain(ctx, client, limiter, symbol)
			if err != nil {
				log.Error().Err(err).Str("CompanyCode", code).Str("Symbol", symbol).
					Msg("option chain fetch failed, skipping company")
				summary.Errors++
				continue
			}

			codes = append(codes, code)
			incoming = append(incoming, contractsFromChain(code, chain, loc)...)
		}

		if len(incoming) == 0 {
			continue
		}

		existing, err := myStore.ExistingOptions(ctx, codes, cfg.RunDate)
		if err != nil {
			log.Error().Err(err).Msg("loading existing option contracts failed, skipping batch")
			summary.Errors += len(incoming)
			continue
		}

		writeBatch(ctx, myStore, data.DataTypes[data.OptionsKey].Table,
			reconcile.Records(existing, incoming), summary)
	}

	return summary.Finish(), nil
}

func contractsFromChain(code string, chain *optionChainResult, loc *time.Location) []*data.OptionContract {
	var contracts []*data.OptionContract

	for _, slice := range chain.Options {
		expiry := barDate(slice.ExpirationDate, loc)
		for _, quote := range slice.Calls {
			contracts = append(contracts, contractRow(code, expiry, data.Call, quote))
		}
		for _, quote := range slice.Puts {
			contracts = append(contracts, contractRow(code, expiry, data.Put, quote))
		}
	}

	return contracts
}

func contractRow(code string, expiry time.Time, optionType data.OptionType, quote optionQuote) *data.OptionContract {
	return &data.OptionContract{
		Code:              code,
		Expiry:            expiry,
		Strike:            decimal.NewFromFloat(quote.Strike),
		Type:              optionType,
		LastPrice:         scalarValue(quote.LastPrice),
		Bid:               scalarValue(quote.Bid),
		Ask:               scalarValue(quote.Ask),
		Volume:            quote.Volume,
		OpenInterest:      quote.OpenInterest,
		ImpliedVolatility: scalarValue(quote.ImpliedVolatility),
	}
}

func scalarValue(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	return reconcile.Scalar(*v)
}
