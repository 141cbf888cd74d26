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

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidCode reports whether code can serve as a natural-key field.
// Upstream CSV exports encode missing values inconsistently: empty
// strings, whitespace, and the literal string "nan" (any case) all mean
// absent.
func ValidCode(code string) bool {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return false
	}

	return !strings.EqualFold(trimmed, "nan")
}

// Scalar converts a raw float into a nullable decimal. NaN and infinite
// values map to nil, matching how the source APIs signal missing data.
func Scalar(val float64) *decimal.Decimal {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return nil
	}

	d := decimal.NewFromFloat(val)
	return &d
}

// EqualNumeric compares two nullable decimals by value, so 100 and
// 100.00 are equal regardless of scale. nil is a distinct value from 0.
func EqualNumeric(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.Equal(*b)
}

// NumericChanged reports whether incoming should overwrite old. A nil
// incoming value never counts as a change: null never deletes a stored
// value.
func NumericChanged(old, incoming *decimal.Decimal) bool {
	if incoming == nil {
		return false
	}

	if old == nil {
		return true
	}

	return !old.Equal(*incoming)
}

// MergeNumeric returns the value an update should carry for one field.
func MergeNumeric(old, incoming *decimal.Decimal) *decimal.Decimal {
	if incoming == nil {
		return old
	}

	return incoming
}

// Int64Changed mirrors NumericChanged for integral columns like volume.
func Int64Changed(old, incoming *int64) bool {
	if incoming == nil {
		return false
	}

	if old == nil {
		return true
	}

	return *old != *incoming
}

// MergeInt64 returns the value an update should carry for an integral field.
func MergeInt64(old, incoming *int64) *int64 {
	if incoming == nil {
		return old
	}

	return incoming
}

// StringChanged reports whether an incoming text value should overwrite
// the stored one. Blank and "nan" placeholders never overwrite.
func StringChanged(old, incoming string) bool {
	if !ValidCode(incoming) {
		return false
	}

	return old != incoming
}

// MergeString returns the value an update should carry for a text field.
func MergeString(old, incoming string) string {
	if !ValidCode(incoming) {
		return old
	}

	return incoming
}
