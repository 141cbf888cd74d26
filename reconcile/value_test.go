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
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stockdash/mdsync/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCode(t *testing.T) {
	cases := []struct {
		code  string
		valid bool
	}{
		{"TCS", true},
		{"500325", true},
		{"", false},
		{"   ", false},
		{"nan", false},
		{"NaN", false},
		{"NAN", false},
		{" nan ", false},
		{"nanotech", true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.valid, reconcile.ValidCode(tc.code), "code %q", tc.code)
	}
}

func TestScalar(t *testing.T) {
	assert.Nil(t, reconcile.Scalar(math.NaN()))
	assert.Nil(t, reconcile.Scalar(math.Inf(1)))
	assert.Nil(t, reconcile.Scalar(math.Inf(-1)))

	val := reconcile.Scalar(3500.25)
	require.NotNil(t, val)
	assert.True(t, val.Equal(decimal.RequireFromString("3500.25")))

	zero := reconcile.Scalar(0)
	require.NotNil(t, zero)
	assert.True(t, zero.IsZero())
}

func TestEqualNumeric(t *testing.T) {
	hundred := decimal.RequireFromString("100")
	hundredScaled := decimal.RequireFromString("100.00")
	zero := decimal.Zero

	assert.True(t, reconcile.EqualNumeric(&hundred, &hundredScaled))
	assert.True(t, reconcile.EqualNumeric(nil, nil))

	// nil is a distinct value from zero
	assert.False(t, reconcile.EqualNumeric(nil, &zero))
	assert.False(t, reconcile.EqualNumeric(&zero, nil))
}

func TestNumericChangedAndMerge(t *testing.T) {
	old := decimal.RequireFromString("100")
	incoming := decimal.RequireFromString("100.01")

	assert.True(t, reconcile.NumericChanged(&old, &incoming))
	assert.False(t, reconcile.NumericChanged(&old, &old))
	assert.False(t, reconcile.NumericChanged(&old, nil))
	assert.True(t, reconcile.NumericChanged(nil, &incoming))

	assert.Equal(t, &old, reconcile.MergeNumeric(&old, nil))
	assert.Equal(t, &incoming, reconcile.MergeNumeric(&old, &incoming))

	// zero is a real value and does overwrite
	zero := decimal.Zero
	assert.True(t, reconcile.NumericChanged(&old, &zero))
}

func TestStringChangedAndMerge(t *testing.T) {
	assert.True(t, reconcile.StringChanged("Cement", "Software"))
	assert.False(t, reconcile.StringChanged("Cement", "Cement"))
	assert.False(t, reconcile.StringChanged("Cement", ""))
	assert.False(t, reconcile.StringChanged("Cement", "nan"))

	assert.Equal(t, "Cement", reconcile.MergeString("Cement", "nan"))
	assert.Equal(t, "Software", reconcile.MergeString("Cement", "Software"))
}
