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

// Package provider implements the source fetch layer: each provider
// exposes datasets that fetch an external snapshot, reconcile it against
// the stored rows, and upsert only what changed.
package provider

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stockdash/mdsync/data"
	"github.com/stockdash/mdsync/reconcile"
	"github.com/stockdash/mdsync/store"
)

type Provider interface {
	Name() string
	ConfigDescription() map[string]string
	Description() string
	Datasets() map[string]Dataset
}

type Dataset struct {
	Name        string
	Description string
	DataTypes   []*data.DataType

	// Sync fetches the dataset, reconciles it, and writes changed rows.
	// Per-record and per-batch failures are absorbed into the returned
	// summary; a non-nil error means the run could not start at all.
	Sync func(context.Context, *store.Store, RunConfig) (*data.RunSummary, error)
}

// RunConfig carries the per-run knobs every script historically took on
// the command line.
type RunConfig struct {
	RunDate   time.Time
	Limit     int
	BatchSize int
	CSVPath   string
}

// BatchSizeOr returns the configured batch size or a dataset default.
func (cfg RunConfig) BatchSizeOr(fallback int) int {
	if cfg.BatchSize > 0 {
		return cfg.BatchSize
	}
	return fallback
}

// writeBatch folds one reconciled batch into the run summary and writes
// the changed rows. A storage failure rolls back the batch, is counted,
// and the run continues.
func writeBatch[K comparable, R data.Record](ctx context.Context, myStore *store.Store,
	tbl string, result reconcile.Result[K, R], summary *data.RunSummary) {
	summary.Processed += result.Processed()
	summary.Unchanged += len(result.Unchanged)
	summary.Rejected += len(result.Rejected)
	summary.Duplicates += result.Duplicates

	if result.Duplicates > 0 {
		log.Warn().Str("Table", tbl).Int("Duplicates", result.Duplicates).
			Msg("incoming batch contained duplicate natural keys")
	}

	records := make([]data.Record, 0, len(result.Inserts)+len(result.Updates))
	for _, record := range result.Inserts {
		records = append(records, record)
	}
	for _, update := range result.Updates {
		records = append(records, update.Record)
	}

	if _, err := myStore.UpsertBatch(ctx, tbl, records, summary.RunDate); err != nil {
		log.Error().Err(err).Str("Table", tbl).Int("BatchSize", len(records)).
			Msg("batch upsert failed, continuing with next batch")
		summary.Errors += len(records)
		return
	}

	summary.Inserted += len(result.Inserts)
	summary.Updated += len(result.Updates)
}
