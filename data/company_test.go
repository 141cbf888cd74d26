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
package data_test

import (
	"testing"

	"github.com/stockdash/mdsync/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedCodePrefersNSE(t *testing.T) {
	company := &data.Company{NSECode: "RELIANCE", BSECode: "500325"}
	assert.Equal(t, "RELIANCE", company.UnifiedCode())

	company = &data.Company{BSECode: "500325"}
	assert.Equal(t, "500325", company.UnifiedCode())

	// screener exports sometimes render BSE codes as floats
	company = &data.Company{BSECode: "500325.0"}
	assert.Equal(t, "500325", company.UnifiedCode())

	company = &data.Company{NSECode: "nan", BSECode: "500325"}
	assert.Equal(t, "500325", company.UnifiedCode())

	company = &data.Company{NSECode: "nan", BSECode: ""}
	assert.Equal(t, "", company.UnifiedCode())
}

func TestCompanyKey(t *testing.T) {
	company := &data.Company{NSECode: "TCS"}
	key, ok := company.Key()
	require.True(t, ok)
	assert.Equal(t, "TCS", key)

	_, ok = (&data.Company{NSECode: "nan", BSECode: "NaN"}).Key()
	assert.False(t, ok)
}

func TestCompanyChangedAndMerge(t *testing.T) {
	old := &data.Company{
		Code: "TCS", Name: "Tata Consultancy Services", Industry: "IT",
		CurrentPrice: dec("3500"), MarketCap: dec("1200000"),
	}

	same := &data.Company{
		Code: "TCS", Name: "Tata Consultancy Services", Industry: "IT",
		CurrentPrice: dec("3500.00"), MarketCap: dec("1200000"),
	}
	assert.False(t, same.Changed(old))

	moved := &data.Company{Code: "TCS", Name: "Tata Consultancy Services", CurrentPrice: dec("3501")}
	assert.True(t, moved.Changed(old))

	merged := moved.Merge(old)
	assert.Equal(t, "IT", merged.Industry)
	require.NotNil(t, merged.MarketCap)
	assert.True(t, merged.MarketCap.Equal(*old.MarketCap))
	assert.True(t, merged.CurrentPrice.Equal(*moved.CurrentPrice))
}
