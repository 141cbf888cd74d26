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
package store_test

import (
	"testing"

	"github.com/stockdash/mdsync/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	batches := store.Chunk(items, 2)
	require.Len(t, batches, 3)
	assert.Equal(t, []int{1, 2}, batches[0])
	assert.Equal(t, []int{3, 4}, batches[1])
	assert.Equal(t, []int{5}, batches[2])

	assert.Nil(t, store.Chunk([]int{}, 2))

	whole := store.Chunk(items, 0)
	require.Len(t, whole, 1)
	assert.Equal(t, items, whole[0])

	exact := store.Chunk([]int{1, 2, 3, 4}, 2)
	assert.Len(t, exact, 2)
}
