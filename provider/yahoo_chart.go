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
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/stockdash/mdsync/data"
	"github.com/stockdash/mdsync/reconcile"
	"golang.org/x/time/rate"
)

// chart API (/v8/finance/chart) response. Quote arrays are positionally
// aligned with the timestamp array and individual slots may be null.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (apiErr *apiError) Error() string {
	return fmt.Sprintf("%s: %s", apiErr.Code, apiErr.Description)
}

type chartResult struct {
	Meta struct {
		Symbol               string `json:"symbol"`
		ExchangeTimezoneName string `json:"exchangeTimezoneName"`
	} `json:"meta"`
	Timestamp  []int64      `json:"timestamp"`
	Events     *chartEvents `json:"events"`
	Indicators struct {
		Quote    []chartQuote `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type chartEvents struct {
	Dividends map[string]chartDividend `json:"dividends"`
	Splits    map[string]chartSplit    `json:"splits"`
}

type chartDividend struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

type chartSplit struct {
	Date        int64  `json:"date"`
	Numerator   int    `json:"numerator"`
	Denominator int    `json:"denominator"`
	SplitRatio  string `json:"splitRatio"`
}

// fetchChart downloads daily bars plus dividend/split events for one
// symbol over [since, until].
func fetchChart(ctx context.Context, client *resty.Client, limiter *rate.Limiter,
	symbol string, since, until time.Time) (*chartResult, error) {
	resp := chartResponse{}
	err := fetchJSON(ctx, client, limiter, fmt.Sprintf("/v8/finance/chart/%s", symbol),
		map[string]string{
			"period1":  strconv.FormatInt(since.Unix(), 10),
			"period2":  strconv.FormatInt(until.Unix(), 10),
			"interval": "1d",
			"events":   "div|split",
		}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, resp.Chart.Error
	}

	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoQuoteData, symbol)
	}

	return &resp.Chart.Result[0], nil
}

// location resolves the exchange timezone the chart reports, falling
// back when the name is missing or unknown.
func (chart *chartResult) location(fallback *time.Location) *time.Location {
	if chart.Meta.ExchangeTimezoneName == "" {
		return fallback
	}

	loc, err := time.LoadLocation(chart.Meta.ExchangeTimezoneName)
	if err != nil {
		return fallback
	}

	return loc
}

// barDate places a bar timestamp on its trading date in the exchange
// timezone, truncated to midnight UTC for storage.
func barDate(stamp int64, loc *time.Location) time.Time {
	local := time.Unix(stamp, 0).In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func scalarAt(values []*float64, idx int) *decimal.Decimal {
	if idx >= len(values) || values[idx] == nil {
		return nil
	}
	return reconcile.Scalar(*values[idx])
}

func int64At(values []*int64, idx int) *int64 {
	if idx >= len(values) || values[idx] == nil {
		return nil
	}
	v := *values[idx]
	return &v
}

// pricesFromChart converts one chart result into price rows, dropping
// bars where every quoted field is null.
func pricesFromChart(code, name string, chart *chartResult, loc *time.Location) []*data.Price {
	if len(chart.Indicators.Quote) == 0 {
		return nil
	}
	quote := chart.Indicators.Quote[0]

	var adjClose []*float64
	if len(chart.Indicators.AdjClose) > 0 {
		adjClose = chart.Indicators.AdjClose[0].AdjClose
	}

	prices := make([]*data.Price, 0, len(chart.Timestamp))
	for idx, stamp := range chart.Timestamp {
		price := &data.Price{
			Code:     code,
			Name:     name,
			Date:     barDate(stamp, loc),
			Open:     scalarAt(quote.Open, idx),
			High:     scalarAt(quote.High, idx),
			Low:      scalarAt(quote.Low, idx),
			Close:    scalarAt(quote.Close, idx),
			Volume:   int64At(quote.Volume, idx),
			AdjClose: scalarAt(adjClose, idx),
		}

		if price.Empty() {
			continue
		}

		prices = append(prices, price)
	}

	return prices
}

// actionsFromChart converts chart dividend and split events into
// corporate action rows.
func actionsFromChart(code, name string, chart *chartResult, loc *time.Location) []*data.CorporateAction {
	if chart.Events == nil {
		return nil
	}

	actions := make([]*data.CorporateAction, 0,
		len(chart.Events.Dividends)+len(chart.Events.Splits))

	for _, div := range chart.Events.Dividends {
		amount := reconcile.Scalar(div.Amount)
		if amount == nil {
			continue
		}
		actions = append(actions, &data.CorporateAction{
			Code:    code,
			Name:    name,
			Date:    barDate(div.Date, loc),
			Type:    data.Dividend,
			Details: fmt.Sprintf("dividend of %s per share", amount.String()),
		})
	}

	for _, split := range chart.Events.Splits {
		actions = append(actions, &data.CorporateAction{
			Code:    code,
			Name:    name,
			Date:    barDate(split.Date, loc),
			Type:    data.Split,
			Details: fmt.Sprintf("split ratio %s", split.SplitRatio),
		})
	}

	return actions
}
