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
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"github.com/stockdash/mdsync/data"
)

var (
	ErrConstraint = errors.New("constraint violation")
)

// UpsertBatch writes one reconciled batch inside a single transaction,
// stamping last_modified with the run's logical date. On any failure the
// whole batch rolls back and the error is returned for the caller to
// count; the run is expected to continue with the next batch.
func (myStore *Store) UpsertBatch(ctx context.Context, tbl string, records []data.Record, runDate time.Time) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	conn, err := myStore.Pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	for _, record := range records {
		if _, err := tx.Exec(ctx, record.UpsertSQL(tbl), record.UpsertArgs(runDate)...); err != nil {
			if err2 := tx.Rollback(ctx); err2 != nil {
				log.Error().Err(err2).Str("Table", tbl).Msg("error rolling back batch transaction")
			}

			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
				return 0, fmt.Errorf("%w: %s", ErrConstraint, pgErr.Message)
			}

			return 0, fmt.Errorf("upsert into %s: %w", tbl, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit batch: %w", err)
	}

	return len(records), nil
}

// Chunk splits records into batches of at most size elements, preserving
// order. A size of 0 or less yields a single batch.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}

	if size <= 0 {
		return [][]T{items}
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}

	return batches
}
