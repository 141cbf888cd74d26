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
package reconcile

// Entity is implemented by every record type in the data package: it
// derives its own natural key, compares its tracked fields, and builds a
// null-preserving update payload.
type Entity[K comparable, R any] interface {
	Key() (K, bool)
	Changed(old R) bool
	Merge(old R) R
}

// Records reconciles a batch of entities using their own key, change,
// and merge behavior.
func Records[K comparable, R Entity[K, R]](existing map[K]R, incoming []R) Result[K, R] {
	return Reconcile(existing, incoming,
		func(record R) (K, bool) { return record.Key() },
		func(old, incoming R) bool { return incoming.Changed(old) },
		WithMerge[K](func(old, incoming R) R { return incoming.Merge(old) }),
	)
}
