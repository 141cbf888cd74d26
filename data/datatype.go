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

// DataType describes one dataset and the table it lands in. The DDL for
// each table lives in db/migrations; the natural-key constraint named
// here is what the upsert statements conflict on.
type DataType struct {
	Name       string
	Table      string
	NaturalKey []string
}

const (
	CompaniesKey     = "companies"
	PricesKey        = "prices"
	ActionsKey       = "corporate-actions"
	StatementsKey    = "financial-statements"
	HoldersKey       = "holders"
	OptionsKey       = "options"
	IndicesKey       = "indices"
	IndexPricesKey   = "index-prices"
	InsiderTradesKey = "insider-trades"
)

var DataTypes = map[string]*DataType{
	CompaniesKey: {
		Name:       CompaniesKey,
		Table:      "companies",
		NaturalKey: []string{"company_code"},
	},
	PricesKey: {
		Name:       PricesKey,
		Table:      "prices",
		NaturalKey: []string{"company_code", "event_date"},
	},
	ActionsKey: {
		Name:       ActionsKey,
		Table:      "corporate_actions",
		NaturalKey: []string{"company_code", "event_date", "action_type"},
	},
	StatementsKey: {
		Name:       StatementsKey,
		Table:      "financial_statements",
		NaturalKey: []string{"company_code", "period", "kind"},
	},
	HoldersKey: {
		Name:       HoldersKey,
		Table:      "holders",
		NaturalKey: []string{"company_code", "event_date", "holder_name", "holder_type"},
	},
	OptionsKey: {
		Name:       OptionsKey,
		Table:      "option_contracts",
		NaturalKey: []string{"company_code", "expiry", "strike", "option_type"},
	},
	IndicesKey: {
		Name:       IndicesKey,
		Table:      "indices",
		NaturalKey: []string{"ticker"},
	},
	IndexPricesKey: {
		Name:       IndexPricesKey,
		Table:      "index_prices",
		NaturalKey: []string{"ticker", "event_date"},
	},
	InsiderTradesKey: {
		Name:       InsiderTradesKey,
		Table:      "insider_trades",
		NaturalKey: []string{"company_code", "event_date", "insider", "transaction"},
	},
}
