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
	"golang.org/x/time/rate"
)

// fundamentals-timeseries API. The income statement modules of
// quoteSummary carry no per-share figures, so reported basic EPS comes
// from this endpoint instead. Each result entry carries exactly one of
// the requested series.
type timeseriesResponse struct {
	Timeseries struct {
		Result []timeseriesResult `json:"result"`
		Error  *apiError          `json:"error"`
	} `json:"timeseries"`
}

type timeseriesResult struct {
	AnnualBasicEPS    []*timeseriesValue `json:"annualBasicEPS"`
	QuarterlyBasicEPS []*timeseriesValue `json:"quarterlyBasicEPS"`
}

type timeseriesValue struct {
	AsOfDate      string   `json:"asOfDate"`
	ReportedValue rawFloat `json:"reportedValue"`
}

// basicEPS indexes reported earnings per share by fiscal period end
// date ("2006-01-02").
type basicEPS struct {
	annual    map[string]*decimal.Decimal
	quarterly map[string]*decimal.Decimal
}

func (eps basicEPS) forPeriod(kind data.StatementKind, endDate string) *decimal.Decimal {
	if kind == data.Quarterly {
		return eps.quarterly[endDate]
	}
	return eps.annual[endDate]
}

func epsFromTimeseries(resp *timeseriesResponse) basicEPS {
	eps := basicEPS{
		annual:    make(map[string]*decimal.Decimal),
		quarterly: make(map[string]*decimal.Decimal),
	}

	for _, result := range resp.Timeseries.Result {
		for _, value := range result.AnnualBasicEPS {
			if value == nil || value.AsOfDate == "" {
				continue
			}
			eps.annual[value.AsOfDate] = value.ReportedValue.Decimal()
		}

		for _, value := range result.QuarterlyBasicEPS {
			if value == nil || value.AsOfDate == "" {
				continue
			}
			eps.quarterly[value.AsOfDate] = value.ReportedValue.Decimal()
		}
	}

	return eps
}

// fetchBasicEPS downloads reported basic EPS per fiscal period over
// [since, until] for one symbol.
func fetchBasicEPS(ctx context.Context, client *resty.Client, limiter *rate.Limiter,
	symbol string, since, until time.Time) (basicEPS, error) {
	resp := timeseriesResponse{}
	err := fetchJSON(ctx, client, limiter,
		fmt.Sprintf("/ws/fundamentals-timeseries/v1/finance/timeseries/%s", symbol),
		map[string]string{
			"type":    "annualBasicEPS,quarterlyBasicEPS",
			"period1": strconv.FormatInt(since.Unix(), 10),
			"period2": strconv.FormatInt(until.Unix(), 10),
		}, &resp)
	if err != nil {
		return basicEPS{}, err
	}

	if resp.Timeseries.Error != nil {
		return basicEPS{}, resp.Timeseries.Error
	}

	return epsFromTimeseries(&resp), nil
}
