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
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockdash/mdsync/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(val string) *decimal.Decimal {
	d := decimal.RequireFromString(val)
	return &d
}

func i64(val int64) *int64 {
	return &val
}

func day(val string) time.Time {
	t, err := time.Parse(data.DateOnly, val)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPriceKey(t *testing.T) {
	price := &data.Price{Code: "TCS", Date: day("2024-01-02")}
	key, ok := price.Key()
	require.True(t, ok)
	assert.Equal(t, data.PriceKey{Code: "TCS", Date: "2024-01-02"}, key)

	_, ok = (&data.Price{Code: "nan", Date: day("2024-01-02")}).Key()
	assert.False(t, ok)

	_, ok = (&data.Price{Code: "TCS"}).Key()
	assert.False(t, ok)
}

func TestPriceChanged(t *testing.T) {
	old := &data.Price{Code: "TCS", Date: day("2024-01-02"), Close: dec("3500"), Volume: i64(100)}

	same := &data.Price{Code: "TCS", Date: day("2024-01-02"), Close: dec("3500.00"), Volume: i64(100)}
	assert.False(t, same.Changed(old))

	moved := &data.Price{Code: "TCS", Date: day("2024-01-02"), Close: dec("3500.05"), Volume: i64(100)}
	assert.True(t, moved.Changed(old))

	// incoming nulls are not changes
	sparse := &data.Price{Code: "TCS", Date: day("2024-01-02")}
	assert.False(t, sparse.Changed(old))
}

func TestPriceMergePreservesStoredValues(t *testing.T) {
	old := &data.Price{Code: "TCS", Date: day("2024-01-02"), Close: dec("3500"), Volume: i64(500)}
	incoming := &data.Price{Code: "TCS", Date: day("2024-01-02"), Close: dec("3510")}

	merged := incoming.Merge(old)

	require.NotNil(t, merged.Volume)
	assert.Equal(t, int64(500), *merged.Volume)
	assert.True(t, merged.Close.Equal(decimal.RequireFromString("3510")))
}

func TestPriceEmpty(t *testing.T) {
	assert.True(t, (&data.Price{Code: "TCS", Date: day("2024-01-02")}).Empty())
	assert.False(t, (&data.Price{Code: "TCS", Date: day("2024-01-02"), Close: dec("1")}).Empty())
}
