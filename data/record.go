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

// Package data defines the typed records mdsync maintains: one struct per
// database table, each carrying its natural key, an explicit tracked-field
// change check, a null-preserving merge, and its upsert statement.
package data

import "time"

// Record is what the store's batch executor writes. UpsertSQL must emit
// an INSERT ... ON CONFLICT statement over the table's natural-key
// constraint; UpsertArgs supplies the positional values, stamping
// last_modified with the run's logical date.
type Record interface {
	UpsertSQL(tbl string) string
	UpsertArgs(runDate time.Time) []any
}

// DateOnly is the canonical key encoding for date fields. Natural keys
// use strings rather than time.Time so key structs compare by value.
const DateOnly = "2006-01-02"
