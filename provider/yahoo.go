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
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/spf13/viper"
	"github.com/stockdash/mdsync/data"
	"golang.org/x/time/rate"
)

var (
	ErrInvalidStatusCode = errors.New("invalid status code received")
	ErrNoQuoteData       = errors.New("no quote data returned")
)

const (
	yahooQueryHost = "https://query1.finance.yahoo.com"

	// transient fetch failures are retried a fixed number of times with
	// a fixed delay; afterwards the batch is counted errored and skipped
	fetchAttempts = 3
	fetchDelay    = 10 * time.Second
)

type Yahoo struct {
}

func (yahoo *Yahoo) Name() string {
	return "yahoo"
}

func (yahoo *Yahoo) ConfigDescription() map[string]string {
	return map[string]string{
		"rateLimit": "What is the maximum number of requests per minute?",
	}
}

func (yahoo *Yahoo) Description() string {
	return `Yahoo Finance provides free quote, corporate action, ownership,
financial statement, and option chain data for NSE/BSE listed companies and
global indices.`
}

func (yahoo *Yahoo) Datasets() map[string]Dataset {
	return map[string]Dataset{
		data.PricesKey: {
			Name:        "Daily Prices",
			Description: "End-of-day OHLCV bars for all companies with a quote symbol (3 day lookback).",
			DataTypes:   []*data.DataType{data.DataTypes[data.PricesKey]},
			Sync:        syncPrices,
		},
		data.ActionsKey: {
			Name:        "Corporate Actions",
			Description: "Dividends, splits, and bonus issues announced in the lookback window.",
			DataTypes:   []*data.DataType{data.DataTypes[data.ActionsKey]},
			Sync:        syncActions,
		},
		data.StatementsKey: {
			Name:        "Financial Statements",
			Description: "Annual and quarterly income statement summaries.",
			DataTypes:   []*data.DataType{data.DataTypes[data.StatementsKey]},
			Sync:        syncStatements,
		},
		data.HoldersKey: {
			Name:        "Holders",
			Description: "Institutional and mutual fund ownership as of the latest report date.",
			DataTypes:   []*data.DataType{data.DataTypes[data.HoldersKey]},
			Sync:        syncHolders,
		},
		data.OptionsKey: {
			Name:        "Option Chains",
			Description: "Listed option contracts for the nearest expiries.",
			DataTypes:   []*data.DataType{data.DataTypes[data.OptionsKey]},
			Sync:        syncOptions,
		},
		data.IndexPricesKey: {
			Name:        "Index Prices",
			Description: "Daily bars for tracked market indices.",
			DataTypes: []*data.DataType{
				data.DataTypes[data.IndicesKey],
				data.DataTypes[data.IndexPricesKey],
			},
			Sync: syncIndexPrices,
		},
		data.InsiderTradesKey: {
			Name:        "Insider Trades",
			Description: "Disclosed insider transactions.",
			DataTypes:   []*data.DataType{data.DataTypes[data.InsiderTradesKey]},
			Sync:        syncInsiderTrades,
		},
	}
}

// Private interface

func yahooClient() (*resty.Client, *rate.Limiter) {
	rateLimit := viper.GetInt("yahoo.rate_limit")
	if rateLimit <= 0 {
		rateLimit = 120
	}

	client := resty.New().
		SetBaseURL(yahooQueryHost).
		SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) mdsync")
	limiter := rate.NewLimiter(rate.Limit(float64(rateLimit)/float64(61)), 1)

	return client, limiter
}

// fetchJSON performs one rate-limited GET with fixed-delay retries for
// transient failures. Client errors (4xx) are not retried.
func fetchJSON(ctx context.Context, client *resty.Client, limiter *rate.Limiter,
	url string, params map[string]string, out any) error {
	operation := func() error {
		if err := limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		resp, err := client.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(url)
		if err != nil {
			return err
		}

		if resp.StatusCode() >= 400 && resp.StatusCode() < 500 {
			return backoff.Permanent(fmt.Errorf("%w: %d", ErrInvalidStatusCode, resp.StatusCode()))
		}

		if resp.StatusCode() >= 300 {
			return fmt.Errorf("%w: %d", ErrInvalidStatusCode, resp.StatusCode())
		}

		return json.Unmarshal(resp.Body(), out)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(fetchDelay), fetchAttempts-1), ctx)

	return backoff.Retry(operation, policy)
}

// marketTZ returns the exchange timezone used to place bar timestamps on
// the correct trading date.
func marketTZ() *time.Location {
	ist, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.UTC
	}
	return ist
}
