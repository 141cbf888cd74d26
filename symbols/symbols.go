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

// Package symbols maps unified company codes to the exchange-suffixed
// quote symbols the market-data API expects: NSE codes become CODE.NS,
// BSE scrip numbers become CODE.BO.
package symbols

import (
	"context"
	"strings"

	"github.com/alphadose/haxmap"
	"github.com/rs/zerolog/log"
	"github.com/stockdash/mdsync/data"
	"github.com/stockdash/mdsync/reconcile"
)

const (
	NSE = "NSE"
	BSE = "BSE"
)

var symbolMap *haxmap.Map[string, string]

func init() {
	symbolMap = haxmap.New[string, string]()
}

func MapInstance() *haxmap.Map[string, string] {
	return symbolMap
}

// ForCompany derives the quote symbol and exchange for a company,
// preferring the NSE listing. Returns empty strings when neither code
// is usable.
func ForCompany(company *data.Company) (string, string) {
	if reconcile.ValidCode(company.NSECode) {
		return strings.TrimSpace(company.NSECode) + ".NS", NSE
	}

	if reconcile.ValidCode(company.BSECode) {
		code := strings.TrimSpace(company.BSECode)
		// BSE scrip numbers exported through pandas may carry a decimal suffix
		if idx := strings.Index(code, "."); idx > 0 {
			code = code[:idx]
		}
		return code + ".BO", BSE
	}

	return "", ""
}

// LoadCache primes the code -> symbol map from the companies table so
// repeated dataset runs in one process skip the derivation.
func LoadCache(ctx context.Context, companies []*data.Company) {
	cache := MapInstance()

	for _, company := range companies {
		code, ok := company.Key()
		if !ok {
			continue
		}

		symbol, _ := ForCompany(company)
		if symbol == "" {
			log.Warn().Str("CompanyCode", code).Msg("company has no usable quote symbol")
			continue
		}

		cache.Set(code, symbol)
	}
}

// Lookup returns the cached quote symbol for a unified company code.
func Lookup(code string) (string, bool) {
	return MapInstance().Get(code)
}
