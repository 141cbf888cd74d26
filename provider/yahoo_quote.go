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
	"github.com/shopspring/decimal"
	"github.com/stockdash/mdsync/reconcile"
	"golang.org/x/time/rate"
)

// quoteSummary API (/v10/finance/quoteSummary) response. Only the modules
// requested in the query string are populated; everything else stays nil.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	IncomeStatementHistory *struct {
		Statements []incomeStatement `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`
	IncomeStatementHistoryQuarterly *struct {
		Statements []incomeStatement `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistoryQuarterly"`
	InstitutionOwnership *struct {
		OwnershipList []ownershipRow `json:"ownershipList"`
	} `json:"institutionOwnership"`
	FundOwnership *struct {
		OwnershipList []ownershipRow `json:"ownershipList"`
	} `json:"fundOwnership"`
	MajorHoldersBreakdown *majorHoldersBreakdown `json:"majorHoldersBreakdown"`
	InsiderTransactions   *struct {
		Transactions []insiderTransaction `json:"transactions"`
	} `json:"insiderTransactions"`
}

// numeric fields arrive as {"raw": ..., "fmt": "..."} wrappers; only the
// raw value matters here and it may be absent entirely.
type rawFloat struct {
	Raw *float64 `json:"raw"`
}

func (value rawFloat) Decimal() *decimal.Decimal {
	if value.Raw == nil {
		return nil
	}
	return reconcile.Scalar(*value.Raw)
}

type rawInt struct {
	Raw *int64 `json:"raw"`
}

func (value rawInt) Int64() *int64 {
	if value.Raw == nil {
		return nil
	}
	v := *value.Raw
	return &v
}

type rawDate struct {
	Raw *int64 `json:"raw"`
	Fmt string `json:"fmt"`
}

func (value rawDate) Time(loc *time.Location) time.Time {
	if value.Raw == nil {
		return time.Time{}
	}
	return barDate(*value.Raw, loc)
}

type incomeStatement struct {
	EndDate      rawDate  `json:"endDate"`
	TotalRevenue rawFloat `json:"totalRevenue"`
	NetIncome    rawFloat `json:"netIncome"`
}

type ownershipRow struct {
	Organization string   `json:"organization"`
	ReportDate   rawDate  `json:"reportDate"`
	PctHeld      rawFloat `json:"pctHeld"`
	Position     rawInt   `json:"position"`
	Value        rawFloat `json:"value"`
}

type majorHoldersBreakdown struct {
	InsidersPercentHeld     rawFloat `json:"insidersPercentHeld"`
	InstitutionsPercentHeld rawFloat `json:"institutionsPercentHeld"`
}

type insiderTransaction struct {
	FilerName       string   `json:"filerName"`
	FilerRelation   string   `json:"filerRelation"`
	TransactionText string   `json:"transactionText"`
	Ownership       string   `json:"ownership"`
	StartDate       rawDate  `json:"startDate"`
	Shares          rawInt   `json:"shares"`
	Value           rawFloat `json:"value"`
}

// fetchQuoteSummary downloads the requested quoteSummary modules for one
// symbol. Modules is the comma-separated list the API expects.
func fetchQuoteSummary(ctx context.Context, client *resty.Client, limiter *rate.Limiter,
	symbol, modules string) (*quoteSummaryResult, error) {
	resp := quoteSummaryResponse{}
	err := fetchJSON(ctx, client, limiter,
		fmt.Sprintf("/v10/finance/quoteSummary/%s", symbol),
		map[string]string{"modules": modules}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.QuoteSummary.Error != nil {
		return nil, resp.QuoteSummary.Error
	}

	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoQuoteData, symbol)
	}

	return &resp.QuoteSummary.Result[0], nil
}
