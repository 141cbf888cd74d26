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

// Package store owns the PostgreSQL connection and the two halves of the
// sync contract: consistent snapshot reads of existing rows keyed by
// natural key, and batched conflict-aware upserts.
package store

import (
	"context"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DBUrl string

	Pool *pgxpool.Pool
}

// Connect creates the connection pool. NUMERIC columns scan into
// shopspring decimals so change detection compares exact values rather
// than floats.
func (myStore *Store) Connect(ctx context.Context) error {
	if myStore.Pool != nil {
		return nil
	}

	cfg, err := pgxpool.ParseConfig(myStore.DBUrl)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}

	cfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	myStore.Pool = pool
	return nil
}

// Close the database pool
func (myStore *Store) Close() {
	if myStore.Pool != nil {
		myStore.Pool.Close()
	}
}

// New connects to the database and returns a ready store.
func New(ctx context.Context, dbURL string) (*Store, error) {
	myStore := &Store{DBUrl: dbURL}
	if err := myStore.Connect(ctx); err != nil {
		return nil, err
	}

	return myStore, nil
}
