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
package data

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockdash/mdsync/reconcile"
)

// Company is a listed NSE/BSE company from the screener export. The
// unified company code (NSE code when present, BSE code otherwise) is
// the natural key shared by every other table.
type Company struct {
	Code            string           `db:"company_code" csv:"-"`
	Name            string           `db:"name" csv:"Name"`
	NSECode         string           `db:"nse_code" csv:"NSE Code"`
	BSECode         string           `db:"bse_code" csv:"BSE Code"`
	Industry        string           `db:"industry" csv:"Industry"`
	Exchange        string           `db:"exchange" csv:"-"`
	CurrentPrice    *decimal.Decimal `db:"current_price" csv:"Current Price"`
	MarketCap       *decimal.Decimal `db:"market_capitalization" csv:"Market Capitalization"`
	Sales           *decimal.Decimal `db:"sales" csv:"Sales"`
	ProfitAfterTax  *decimal.Decimal `db:"profit_after_tax" csv:"Profit after tax"`
	OPM             *decimal.Decimal `db:"opm" csv:"OPM"`
	EPS             *decimal.Decimal `db:"eps" csv:"EPS"`
	ROCE            *decimal.Decimal `db:"return_on_capital_employed" csv:"Return on capital employed"`
	Debt            *decimal.Decimal `db:"debt" csv:"Debt"`
	Reserves        *decimal.Decimal `db:"reserves" csv:"Reserves"`
	PriceToEarning  *decimal.Decimal `db:"price_to_earning" csv:"Price to Earning"`
	DividendYield   *decimal.Decimal `db:"dividend_yield" csv:"Dividend Yield"`
	BookValue       *decimal.Decimal `db:"book_value" csv:"Book Value"`
	PromoterHolding *decimal.Decimal `db:"promoter_holding" csv:"Promoter holding"`
	ListingDate     *time.Time       `db:"listing_date" csv:"-"`
}

// UnifiedCode prefers the NSE code; BSE codes exported by the screener
// sometimes carry a spurious decimal suffix (500325.0) that is stripped.
func (company *Company) UnifiedCode() string {
	if reconcile.ValidCode(company.NSECode) {
		return strings.TrimSpace(company.NSECode)
	}

	if reconcile.ValidCode(company.BSECode) {
		code := strings.TrimSpace(company.BSECode)
		if idx := strings.Index(code, "."); idx > 0 {
			code = code[:idx]
		}
		return code
	}

	return ""
}

func (company *Company) Key() (string, bool) {
	code := company.Code
	if code == "" {
		code = company.UnifiedCode()
	}

	if !reconcile.ValidCode(code) {
		return "", false
	}

	return code, true
}

// Changed compares the tracked screener fields.
func (company *Company) Changed(old *Company) bool {
	return reconcile.StringChanged(old.Name, company.Name) ||
		reconcile.StringChanged(old.Industry, company.Industry) ||
		reconcile.StringChanged(old.Exchange, company.Exchange) ||
		reconcile.NumericChanged(old.CurrentPrice, company.CurrentPrice) ||
		reconcile.NumericChanged(old.MarketCap, company.MarketCap) ||
		reconcile.NumericChanged(old.Sales, company.Sales) ||
		reconcile.NumericChanged(old.ProfitAfterTax, company.ProfitAfterTax) ||
		reconcile.NumericChanged(old.OPM, company.OPM) ||
		reconcile.NumericChanged(old.EPS, company.EPS) ||
		reconcile.NumericChanged(old.ROCE, company.ROCE) ||
		reconcile.NumericChanged(old.Debt, company.Debt) ||
		reconcile.NumericChanged(old.Reserves, company.Reserves) ||
		reconcile.NumericChanged(old.PriceToEarning, company.PriceToEarning) ||
		reconcile.NumericChanged(old.DividendYield, company.DividendYield) ||
		reconcile.NumericChanged(old.BookValue, company.BookValue) ||
		reconcile.NumericChanged(old.PromoterHolding, company.PromoterHolding)
}

// Merge builds the update payload, keeping stored values where the
// incoming field is null or blank.
func (company *Company) Merge(old *Company) *Company {
	merged := *company
	merged.Name = reconcile.MergeString(old.Name, company.Name)
	merged.Industry = reconcile.MergeString(old.Industry, company.Industry)
	merged.Exchange = reconcile.MergeString(old.Exchange, company.Exchange)
	merged.CurrentPrice = reconcile.MergeNumeric(old.CurrentPrice, company.CurrentPrice)
	merged.MarketCap = reconcile.MergeNumeric(old.MarketCap, company.MarketCap)
	merged.Sales = reconcile.MergeNumeric(old.Sales, company.Sales)
	merged.ProfitAfterTax = reconcile.MergeNumeric(old.ProfitAfterTax, company.ProfitAfterTax)
	merged.OPM = reconcile.MergeNumeric(old.OPM, company.OPM)
	merged.EPS = reconcile.MergeNumeric(old.EPS, company.EPS)
	merged.ROCE = reconcile.MergeNumeric(old.ROCE, company.ROCE)
	merged.Debt = reconcile.MergeNumeric(old.Debt, company.Debt)
	merged.Reserves = reconcile.MergeNumeric(old.Reserves, company.Reserves)
	merged.PriceToEarning = reconcile.MergeNumeric(old.PriceToEarning, company.PriceToEarning)
	merged.DividendYield = reconcile.MergeNumeric(old.DividendYield, company.DividendYield)
	merged.BookValue = reconcile.MergeNumeric(old.BookValue, company.BookValue)
	merged.PromoterHolding = reconcile.MergeNumeric(old.PromoterHolding, company.PromoterHolding)
	if company.ListingDate == nil {
		merged.ListingDate = old.ListingDate
	}
	return &merged
}

func (company *Company) UpsertSQL(tbl string) string {
	return `INSERT INTO ` + tbl + ` (
	"company_code",
	"name",
	"nse_code",
	"bse_code",
	"industry",
	"exchange",
	"current_price",
	"market_capitalization",
	"sales",
	"profit_after_tax",
	"opm",
	"eps",
	"return_on_capital_employed",
	"debt",
	"reserves",
	"price_to_earning",
	"dividend_yield",
	"book_value",
	"promoter_holding",
	"listing_date",
	"last_modified"
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
) ON CONFLICT (company_code) DO UPDATE SET
	name = COALESCE(NULLIF(EXCLUDED.name, ''), ` + tbl + `.name),
	nse_code = COALESCE(NULLIF(EXCLUDED.nse_code, ''), ` + tbl + `.nse_code),
	bse_code = COALESCE(NULLIF(EXCLUDED.bse_code, ''), ` + tbl + `.bse_code),
	industry = COALESCE(NULLIF(EXCLUDED.industry, ''), ` + tbl + `.industry),
	exchange = COALESCE(NULLIF(EXCLUDED.exchange, ''), ` + tbl + `.exchange),
	current_price = COALESCE(EXCLUDED.current_price, ` + tbl + `.current_price),
	market_capitalization = COALESCE(EXCLUDED.market_capitalization, ` + tbl + `.market_capitalization),
	sales = COALESCE(EXCLUDED.sales, ` + tbl + `.sales),
	profit_after_tax = COALESCE(EXCLUDED.profit_after_tax, ` + tbl + `.profit_after_tax),
	opm = COALESCE(EXCLUDED.opm, ` + tbl + `.opm),
	eps = COALESCE(EXCLUDED.eps, ` + tbl + `.eps),
	return_on_capital_employed = COALESCE(EXCLUDED.return_on_capital_employed, ` + tbl + `.return_on_capital_employed),
	debt = COALESCE(EXCLUDED.debt, ` + tbl + `.debt),
	reserves = COALESCE(EXCLUDED.reserves, ` + tbl + `.reserves),
	price_to_earning = COALESCE(EXCLUDED.price_to_earning, ` + tbl + `.price_to_earning),
	dividend_yield = COALESCE(EXCLUDED.dividend_yield, ` + tbl + `.dividend_yield),
	book_value = COALESCE(EXCLUDED.book_value, ` + tbl + `.book_value),
	promoter_holding = COALESCE(EXCLUDED.promoter_holding, ` + tbl + `.promoter_holding),
	listing_date = COALESCE(EXCLUDED.listing_date, ` + tbl + `.listing_date),
	last_modified = EXCLUDED.last_modified`
}

func (company *Company) UpsertArgs(runDate time.Time) []any {
	code, _ := company.Key()
	return []any{
		code, company.Name, company.NSECode, company.BSECode, company.Industry,
		company.Exchange, company.CurrentPrice, company.MarketCap, company.Sales,
		company.ProfitAfterTax, company.OPM, company.EPS, company.ROCE,
		company.Debt, company.Reserves, company.PriceToEarning,
		company.DividendYield, company.BookValue, company.PromoterHolding,
		company.ListingDate, runDate,
	}
}
