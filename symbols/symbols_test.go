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
package symbols_test

import (
	"context"
	"testing"

	"github.com/stockdash/mdsync/data"
	"github.com/stockdash/mdsync/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForCompany(t *testing.T) {
	symbol, exchange := symbols.ForCompany(&data.Company{NSECode: "RELIANCE", BSECode: "500325"})
	assert.Equal(t, "RELIANCE.NS", symbol)
	assert.Equal(t, symbols.NSE, exchange)

	symbol, exchange = symbols.ForCompany(&data.Company{BSECode: "500325"})
	assert.Equal(t, "500325.BO", symbol)
	assert.Equal(t, symbols.BSE, exchange)

	symbol, _ = symbols.ForCompany(&data.Company{BSECode: "500325.0"})
	assert.Equal(t, "500325.BO", symbol)

	symbol, exchange = symbols.ForCompany(&data.Company{NSECode: "nan", BSECode: "nan"})
	assert.Empty(t, symbol)
	assert.Empty(t, exchange)
}

func TestLoadCache(t *testing.T) {
	companies := []*data.Company{
		{NSECode: "TCS"},
		{BSECode: "500325"},
		{NSECode: "nan", BSECode: ""}, // no usable code, skipped
	}

	symbols.LoadCache(context.Background(), companies)

	symbol, ok := symbols.Lookup("TCS")
	require.True(t, ok)
	assert.Equal(t, "TCS.NS", symbol)

	symbol, ok = symbols.Lookup("500325")
	require.True(t, ok)
	assert.Equal(t, "500325.BO", symbol)
}
