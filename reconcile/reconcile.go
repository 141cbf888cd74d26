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

// Package reconcile computes the minimal set of inserts and updates
// required to bring a database table in line with an external snapshot.
// Records are matched by natural key (ticker+date, ticker+type+date, ...)
// rather than surrogate ids so that re-running an import is idempotent.
package reconcile

// Update pairs a natural key with the record that should replace the
// stored row for that key.
type Update[K comparable, R any] struct {
	Key    K
	Record R
}

// Result partitions one incoming batch. Every record with a valid key
// lands in exactly one of Inserts, Updates, or Unchanged; records whose
// key could not be derived land in Rejected. Duplicates counts incoming
// records that were overwritten by a later record with the same key.
type Result[K comparable, R any] struct {
	Inserts    []R
	Updates    []Update[K, R]
	Unchanged  []K
	Rejected   []R
	Duplicates int
}

// Processed returns the total number of incoming records examined.
func (res *Result[K, R]) Processed() int {
	return len(res.Inserts) + len(res.Updates) + len(res.Unchanged) + len(res.Rejected) + res.Duplicates
}

type options[K comparable, R any] struct {
	merge func(old, incoming R) R
}

type Option[K comparable, R any] func(*options[K, R])

// WithMerge sets the function used to build the update payload when an
// incoming record differs from the stored one. Entity types use this to
// preserve stored values where the incoming field is null. Without it
// the incoming record is emitted as-is.
func WithMerge[K comparable, R any](merge func(old, incoming R) R) Option[K, R] {
	return func(o *options[K, R]) {
		o.merge = merge
	}
}

// Reconcile compares incoming against existing and partitions the batch.
// existing must be a consistent snapshot of the persisted rows keyed by
// natural key; incoming is a finite, already-materialized batch. keyOf
// derives the natural key and reports whether it is valid; changed
// compares the tracked fields of two records. The function performs no
// I/O and never mutates its inputs.
//
// If two incoming records share a key, the later one in iteration order
// wins and the earlier is counted in Duplicates rather than silently
// dropped.
func Reconcile[K comparable, R any](existing map[K]R, incoming []R,
	keyOf func(R) (K, bool), changed func(old, incoming R) bool,
	opts ...Option[K, R]) Result[K, R] {
	cfg := options[K, R]{}
	for _, opt := range opts {
		opt(&cfg)
	}

	result := Result[K, R]{}

	// dedupe while preserving first-seen key order
	type slot struct {
		key    K
		record R
	}

	working := make([]slot, 0, len(incoming))
	position := make(map[K]int, len(incoming))

	for _, record := range incoming {
		key, ok := keyOf(record)
		if !ok {
			result.Rejected = append(result.Rejected, record)
			continue
		}

		if idx, seen := position[key]; seen {
			working[idx].record = record
			result.Duplicates++
			continue
		}

		position[key] = len(working)
		working = append(working, slot{key: key, record: record})
	}

	for _, item := range working {
		old, found := existing[item.key]
		if !found {
			result.Inserts = append(result.Inserts, item.record)
			continue
		}

		if !changed(old, item.record) {
			result.Unchanged = append(result.Unchanged, item.key)
			continue
		}

		payload := item.record
		if cfg.merge != nil {
			payload = cfg.merge(old, item.record)
		}

		result.Updates = append(result.Updates, Update[K, R]{Key: item.key, Record: payload})
	}

	return result
}
