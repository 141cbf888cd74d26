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
package data

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RunSummary accumulates the per-run counters every dataset must report.
// Per-record and per-batch failures are absorbed into these counters;
// they never abort a run.
type RunSummary struct {
	RunID     uuid.UUID
	Dataset   string
	RunDate   time.Time
	StartTime time.Time
	EndTime   time.Time

	Processed  int
	Inserted   int
	Updated    int
	Unchanged  int
	Rejected   int
	Duplicates int
	Errors     int
}

// NewRunSummary starts the clock for a dataset run.
func NewRunSummary(dataset string, runDate time.Time) *RunSummary {
	return &RunSummary{
		RunID:     uuid.New(),
		Dataset:   dataset,
		RunDate:   runDate,
		StartTime: time.Now(),
	}
}

// Add folds batch-level counts into the run totals.
func (summary *RunSummary) Add(other *RunSummary) {
	summary.Processed += other.Processed
	summary.Inserted += other.Inserted
	summary.Updated += other.Updated
	summary.Unchanged += other.Unchanged
	summary.Rejected += other.Rejected
	summary.Duplicates += other.Duplicates
	summary.Errors += other.Errors
}

// Finish stamps the end time and returns the summary for chaining.
func (summary *RunSummary) Finish() *RunSummary {
	summary.EndTime = time.Now()
	return summary
}

// Log writes the seven operability counters at the end of a run.
func (summary *RunSummary) Log(logger *zerolog.Logger) {
	logger.Info().
		Str("RunID", summary.RunID.String()).
		Str("Dataset", summary.Dataset).
		Str("RunDate", summary.RunDate.Format(DateOnly)).
		Int("Processed", summary.Processed).
		Int("Inserted", summary.Inserted).
		Int("Updated", summary.Updated).
		Int("Unchanged", summary.Unchanged).
		Int("Rejected", summary.Rejected).
		Int("Duplicates", summary.Duplicates).
		Int("Errors", summary.Errors).
		Msg("run complete")
}
