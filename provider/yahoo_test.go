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
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockdash/mdsync/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func fp(v float64) *float64 { return &v }
func ip(v int64) *int64     { return &v }

func testChart() *chartResult {
	chart := &chartResult{}
	chart.Meta.Symbol = "TCS.NS"
	chart.Meta.ExchangeTimezoneName = "Asia/Kolkata"

	// 2025-08-14 09:15 IST and 2025-08-18 09:15 IST session opens
	chart.Timestamp = []int64{1755143100, 1755488700}
	chart.Indicators.Quote = []chartQuote{{
		Open:   []*float64{fp(3490), fp(3510)},
		High:   []*float64{fp(3520), nil},
		Low:    []*float64{fp(3480), fp(3500)},
		Close:  []*float64{fp(3500.5), fp(3505)},
		Volume: []*int64{ip(1200000), nil},
	}}
	chart.Indicators.AdjClose = []struct {
		AdjClose []*float64 `json:"adjclose"`
	}{{AdjClose: []*float64{fp(3500.5), fp(3505)}}}

	return chart
}

func TestPricesFromChart(t *testing.T) {
	prices := pricesFromChart("TCS", "Tata Consultancy Services", testChart(), marketTZ())
	require.Len(t, prices, 2)

	first := prices[0]
	assert.Equal(t, "TCS", first.Code)
	assert.Equal(t, time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC), first.Date)
	require.NotNil(t, first.Close)
	assert.True(t, first.Close.Equal(mustDecimal(t, "3500.5")))
	require.NotNil(t, first.Volume)
	assert.Equal(t, int64(1200000), *first.Volume)

	second := prices[1]
	assert.Equal(t, time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC), second.Date)
	assert.Nil(t, second.High, "null slots stay null")
	assert.Nil(t, second.Volume)
}

func TestPricesFromChartDropsEmptyBars(t *testing.T) {
	chart := testChart()
	chart.Timestamp = append(chart.Timestamp, 1755575100)
	// third slot has no data at all
	quote := &chart.Indicators.Quote[0]
	quote.Open = append(quote.Open, nil)
	quote.High = append(quote.High, nil)
	quote.Low = append(quote.Low, nil)
	quote.Close = append(quote.Close, nil)
	quote.Volume = append(quote.Volume, nil)

	prices := pricesFromChart("TCS", "Tata Consultancy Services", chart, marketTZ())
	assert.Len(t, prices, 2)
}

func TestActionsFromChart(t *testing.T) {
	chart := testChart()
	chart.Events = &chartEvents{
		Dividends: map[string]chartDividend{
			"1755143100": {Amount: 28, Date: 1755143100},
		},
		Splits: map[string]chartSplit{
			"1755488700": {Date: 1755488700, Numerator: 2, Denominator: 1, SplitRatio: "2:1"},
		},
	}

	actions := actionsFromChart("TCS", "Tata Consultancy Services", chart, marketTZ())
	require.Len(t, actions, 2)

	byType := make(map[data.ActionType]*data.CorporateAction, 2)
	for _, action := range actions {
		byType[action.Type] = action
	}

	div := byType[data.Dividend]
	require.NotNil(t, div)
	assert.Equal(t, time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC), div.Date)
	assert.Contains(t, div.Details, "28")

	split := byType[data.Split]
	require.NotNil(t, split)
	assert.Contains(t, split.Details, "2:1")
}

func TestStatementRow(t *testing.T) {
	endDate := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC).Unix()
	revenue := 255324.0
	netIncome := 48553.0
	annualEPS := mustDecimal(t, "127.5")
	quarterlyEPS := mustDecimal(t, "31.2")

	stmt := incomeStatement{
		EndDate:      rawDate{Raw: &endDate},
		TotalRevenue: rawFloat{Raw: &revenue},
		NetIncome:    rawFloat{Raw: &netIncome},
	}

	eps := basicEPS{
		annual:    map[string]*decimal.Decimal{"2025-03-31": &annualEPS},
		quarterly: map[string]*decimal.Decimal{"2025-03-31": &quarterlyEPS},
	}

	annual := statementRow("TCS", "Tata Consultancy Services", data.Annual, stmt, time.UTC, eps)
	require.NotNil(t, annual)
	assert.Equal(t, "2025", annual.Period)
	assert.Equal(t, data.Annual, annual.Kind)
	require.NotNil(t, annual.Revenue)
	assert.True(t, annual.Revenue.Equal(mustDecimal(t, "255324")))
	require.NotNil(t, annual.EPS)
	assert.True(t, annual.EPS.Equal(annualEPS))

	quarterly := statementRow("TCS", "Tata Consultancy Services", data.Quarterly, stmt, time.UTC, eps)
	require.NotNil(t, quarterly)
	assert.Equal(t, "2025-Q1", quarterly.Period)
	require.NotNil(t, quarterly.EPS)
	assert.True(t, quarterly.EPS.Equal(quarterlyEPS))

	// a period with no reported EPS stays null
	noEPS := statementRow("TCS", "Tata Consultancy Services", data.Annual, stmt, time.UTC, basicEPS{})
	require.NotNil(t, noEPS)
	assert.Nil(t, noEPS.EPS)

	undated := statementRow("TCS", "Tata Consultancy Services", data.Annual, incomeStatement{}, time.UTC, eps)
	assert.Nil(t, undated)
}

func TestEpsFromTimeseries(t *testing.T) {
	annualValue := 127.5
	quarterlyValue := 31.2

	resp := &timeseriesResponse{}
	resp.Timeseries.Result = []timeseriesResult{
		{AnnualBasicEPS: []*timeseriesValue{
			{AsOfDate: "2025-03-31", ReportedValue: rawFloat{Raw: &annualValue}},
			nil,
			{AsOfDate: ""},
		}},
		{QuarterlyBasicEPS: []*timeseriesValue{
			{AsOfDate: "2025-06-30", ReportedValue: rawFloat{Raw: &quarterlyValue}},
		}},
	}

	eps := epsFromTimeseries(resp)

	annual := eps.forPeriod(data.Annual, "2025-03-31")
	require.NotNil(t, annual)
	assert.True(t, annual.Equal(mustDecimal(t, "127.5")))

	quarterly := eps.forPeriod(data.Quarterly, "2025-06-30")
	require.NotNil(t, quarterly)
	assert.True(t, quarterly.Equal(mustDecimal(t, "31.2")))

	assert.Nil(t, eps.forPeriod(data.Annual, "2025-06-30"), "series are kind-scoped")
	assert.Nil(t, eps.forPeriod(data.Quarterly, "2024-06-30"))
}

func TestChartLocation(t *testing.T) {
	fallback := marketTZ()

	chart := testChart()
	assert.Equal(t, "Asia/Kolkata", chart.location(fallback).String())

	chart.Meta.ExchangeTimezoneName = "America/New_York"
	assert.Equal(t, "America/New_York", chart.location(fallback).String())

	chart.Meta.ExchangeTimezoneName = ""
	assert.Equal(t, fallback, chart.location(fallback))

	chart.Meta.ExchangeTimezoneName = "Not/AZone"
	assert.Equal(t, fallback, chart.location(fallback))
}

func TestClassifyTransaction(t *testing.T) {
	assert.Equal(t, "buy", classifyTransaction("Purchase at price 2450 per share"))
	assert.Equal(t, "buy", classifyTransaction("Open Market Buy"))
	assert.Equal(t, "sell", classifyTransaction("Sale at price 3500 per share"))
	assert.Equal(t, "other", classifyTransaction("Gift of shares"))
	assert.Equal(t, "", classifyTransaction(""))
}

func TestContractsFromChain(t *testing.T) {
	chain := &optionChainResult{
		UnderlyingSymbol: "RELIANCE.NS",
		Options: []optionChainSlice{{
			ExpirationDate: time.Date(2025, 8, 28, 10, 0, 0, 0, time.UTC).Unix(),
			Calls: []optionQuote{{
				Strike:       2500,
				LastPrice:    fp(42.5),
				Volume:       ip(1500),
				OpenInterest: ip(20000),
			}},
			Puts: []optionQuote{{
				Strike:    2500,
				LastPrice: fp(18.2),
			}},
		}},
	}

	contracts := contractsFromChain("RELIANCE", chain, time.UTC)
	require.Len(t, contracts, 2)

	call := contracts[0]
	assert.Equal(t, data.Call, call.Type)
	assert.Equal(t, time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC), call.Expiry)
	assert.True(t, call.Strike.Equal(mustDecimal(t, "2500")))

	key, ok := call.Key()
	require.True(t, ok)
	assert.Equal(t, "2500.00", key.Strike)

	put := contracts[1]
	assert.Equal(t, data.Put, put.Type)
	assert.Nil(t, put.Volume)
}

func TestMajorHolderRows(t *testing.T) {
	insiders := 0.503
	breakdown := &majorHoldersBreakdown{
		InsidersPercentHeld: rawFloat{Raw: &insiders},
	}

	cfg := RunConfig{RunDate: time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC)}
	rows := majorHolderRows("RELIANCE", "Reliance Industries", breakdown, cfg)
	require.Len(t, rows, 1)
	assert.Equal(t, "Insiders", rows[0].HolderName)
	assert.Equal(t, data.Major, rows[0].HolderType)
	assert.Equal(t, cfg.RunDate, rows[0].Date)
}
