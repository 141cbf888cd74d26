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
package reconcile_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stockdash/mdsync/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quote struct {
	Ticker string
	Date   string
	Close  *decimal.Decimal
	Volume *int64
}

type quoteKey struct {
	Ticker string
	Date   string
}

func dec(val string) *decimal.Decimal {
	d := decimal.RequireFromString(val)
	return &d
}

func i64(val int64) *int64 {
	return &val
}

func quoteKeyOf(q quote) (quoteKey, bool) {
	if !reconcile.ValidCode(q.Ticker) || q.Date == "" {
		return quoteKey{}, false
	}

	return quoteKey{Ticker: q.Ticker, Date: q.Date}, true
}

func quoteChanged(old, incoming quote) bool {
	return reconcile.NumericChanged(old.Close, incoming.Close) ||
		reconcile.Int64Changed(old.Volume, incoming.Volume)
}

func quoteMerge(old, incoming quote) quote {
	merged := incoming
	merged.Close = reconcile.MergeNumeric(old.Close, incoming.Close)
	merged.Volume = reconcile.MergeInt64(old.Volume, incoming.Volume)
	return merged
}

func run(existing map[quoteKey]quote, incoming []quote) reconcile.Result[quoteKey, quote] {
	return reconcile.Reconcile(existing, incoming, quoteKeyOf, quoteChanged,
		reconcile.WithMerge[quoteKey](quoteMerge))
}

func TestInsertsAndUnchanged(t *testing.T) {
	existing := map[quoteKey]quote{
		{Ticker: "TCS", Date: "2024-01-02"}: {Ticker: "TCS", Date: "2024-01-02", Close: dec("3500")},
	}

	incoming := []quote{
		{Ticker: "TCS", Date: "2024-01-02", Close: dec("3500")},
		{Ticker: "TCS", Date: "2024-01-03", Close: dec("3550")},
	}

	result := run(existing, incoming)

	require.Len(t, result.Inserts, 1)
	assert.Equal(t, "2024-01-03", result.Inserts[0].Date)
	assert.Equal(t, []quoteKey{{Ticker: "TCS", Date: "2024-01-02"}}, result.Unchanged)
	assert.Empty(t, result.Updates)
	assert.Empty(t, result.Rejected)
	assert.Zero(t, result.Duplicates)
}

func TestRejectsInvalidKeys(t *testing.T) {
	incoming := []quote{
		{Ticker: "", Date: "2024-01-02", Close: dec("10")},
		{Ticker: "nan", Date: "2024-01-02", Close: dec("10")},
		{Ticker: "NaN", Date: "2024-01-02", Close: dec("10")},
		{Ticker: "   ", Date: "2024-01-02", Close: dec("10")},
		{Ticker: "INFY", Date: "", Close: dec("10")},
	}

	result := run(map[quoteKey]quote{}, incoming)

	assert.Len(t, result.Rejected, 5)
	assert.Empty(t, result.Inserts)
	assert.Empty(t, result.Updates)
	assert.Empty(t, result.Unchanged)
}

func TestPartitionCompleteness(t *testing.T) {
	existing := map[quoteKey]quote{
		{Ticker: "A", Date: "2024-01-02"}: {Ticker: "A", Date: "2024-01-02", Close: dec("1")},
		{Ticker: "B", Date: "2024-01-02"}: {Ticker: "B", Date: "2024-01-02", Close: dec("2")},
	}

	incoming := []quote{
		{Ticker: "A", Date: "2024-01-02", Close: dec("1")},    // unchanged
		{Ticker: "B", Date: "2024-01-02", Close: dec("2.50")}, // update
		{Ticker: "C", Date: "2024-01-02", Close: dec("3")},    // insert
		{Ticker: "", Date: "2024-01-02", Close: dec("4")},     // rejected
	}

	result := run(existing, incoming)

	total := len(result.Inserts) + len(result.Updates) + len(result.Unchanged) + len(result.Rejected)
	assert.Equal(t, len(incoming), total)
	assert.Equal(t, len(incoming), result.Processed())
}

func TestChangeDetectionToleratesScale(t *testing.T) {
	existing := map[quoteKey]quote{
		{Ticker: "TCS", Date: "2024-01-02"}: {Ticker: "TCS", Date: "2024-01-02", Close: dec("100.0")},
	}

	// same value, different representation
	result := run(existing, []quote{{Ticker: "TCS", Date: "2024-01-02", Close: dec("100.00")}})
	assert.Empty(t, result.Updates)
	assert.Len(t, result.Unchanged, 1)

	// a one paisa move is a real change
	result = run(existing, []quote{{Ticker: "TCS", Date: "2024-01-02", Close: dec("100.01")}})
	require.Len(t, result.Updates, 1)
	assert.Empty(t, result.Unchanged)
}

func TestNullNeverOverwrites(t *testing.T) {
	existing := map[quoteKey]quote{
		{Ticker: "TCS", Date: "2024-01-02"}: {
			Ticker: "TCS", Date: "2024-01-02", Close: dec("100"), Volume: i64(500),
		},
	}

	// volume missing, close changed: update emitted but stored volume preserved
	incoming := []quote{{Ticker: "TCS", Date: "2024-01-02", Close: dec("101"), Volume: nil}}
	result := run(existing, incoming)

	require.Len(t, result.Updates, 1)
	require.NotNil(t, result.Updates[0].Record.Volume)
	assert.Equal(t, int64(500), *result.Updates[0].Record.Volume)

	// only null deltas: no update at all
	incoming = []quote{{Ticker: "TCS", Date: "2024-01-02", Close: nil, Volume: nil}}
	result = run(existing, incoming)
	assert.Empty(t, result.Updates)
	assert.Len(t, result.Unchanged, 1)
}

func TestDuplicateKeysLastWins(t *testing.T) {
	incoming := []quote{
		{Ticker: "TCS", Date: "2024-01-02", Close: dec("1")},
		{Ticker: "TCS", Date: "2024-01-02", Close: dec("2")},
	}

	result := run(map[quoteKey]quote{}, incoming)

	require.Len(t, result.Inserts, 1)
	assert.True(t, result.Inserts[0].Close.Equal(decimal.RequireFromString("2")))
	assert.Equal(t, 1, result.Duplicates)
}

func TestIdempotence(t *testing.T) {
	existing := map[quoteKey]quote{}
	incoming := []quote{
		{Ticker: "TCS", Date: "2024-01-02", Close: dec("3500"), Volume: i64(100)},
		{Ticker: "INFY", Date: "2024-01-02", Close: dec("1500"), Volume: i64(200)},
	}

	first := run(existing, incoming)
	require.Len(t, first.Inserts, 2)

	// apply the first pass to simulated storage and reconcile again
	next := make(map[quoteKey]quote, len(first.Inserts))
	for _, record := range first.Inserts {
		key, ok := quoteKeyOf(record)
		require.True(t, ok)
		next[key] = record
	}

	second := run(next, incoming)
	assert.Empty(t, second.Inserts)
	assert.Empty(t, second.Updates)
	assert.Len(t, second.Unchanged, len(incoming))
}

func TestNoMergeOptionEmitsIncoming(t *testing.T) {
	existing := map[quoteKey]quote{
		{Ticker: "TCS", Date: "2024-01-02"}: {Ticker: "TCS", Date: "2024-01-02", Close: dec("100"), Volume: i64(500)},
	}
	incoming := []quote{{Ticker: "TCS", Date: "2024-01-02", Close: dec("101")}}

	result := reconcile.Reconcile(existing, incoming, quoteKeyOf, quoteChanged)

	require.Len(t, result.Updates, 1)
	assert.Nil(t, result.Updates[0].Record.Volume)
}
