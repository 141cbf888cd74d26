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
package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stockdash/mdsync/healthcheck"
	"github.com/stockdash/mdsync/provider"
	"github.com/stockdash/mdsync/store"
)

var (
	syncLimit     int
	syncBatchSize int
	syncCSVPath   string
	syncRunDate   string
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync [dataset...]",
	Short: "Synchronize datasets against their sources",
	Long: `The sync sub-command fetches each named dataset from its source,
compares the snapshot against the stored rows by natural key, and writes only
the new and changed rows. Per-record and per-batch failures are counted and
logged but never abort the run; the command exits non-zero only when a run
cannot start at all (bad configuration, missing export file, unreachable
database).

Available datasets: ` + strings.Join(provider.DatasetKeys(), ", "),
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		runDate := time.Now().UTC().Truncate(24 * time.Hour)
		if syncRunDate != "" {
			var err error
			if runDate, err = time.Parse("2006-01-02", syncRunDate); err != nil {
				log.Fatal().Err(err).Str("RunDate", syncRunDate).Msg("could not parse run date")
			}
		}

		myStore, err := store.New(ctx, viper.GetString("db.url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer myStore.Close()

		for _, datasetKey := range args {
			prov, dataset, ok := provider.LookupDataset(datasetKey)
			if !ok {
				log.Fatal().Str("DatasetKey", datasetKey).Msg("dataset not found")
			}

			syncLogger := log.With().Str("Provider", prov.Name()).Str("Dataset", datasetKey).Logger()

			cfg := provider.RunConfig{
				RunDate:   runDate,
				Limit:     syncLimit,
				BatchSize: syncBatchSize,
				CSVPath:   syncCSVPath,
			}

			healthcheck.Start(datasetKey)

			startTime := time.Now()
			summary, err := dataset.Sync(ctx, myStore, cfg)
			if err != nil {
				healthcheck.Fail(datasetKey)
				syncLogger.Fatal().Err(err).Msg("dataset sync could not start")
			}

			healthcheck.Success(datasetKey)

			runTime := time.Since(startTime)
			summary.Log(&syncLogger)
			syncLogger.Info().Str("RunTime", durafmt.Parse(runTime).String()).Msg("dataset sync finished")
		}
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().IntVar(&syncLimit, "limit", 0, "only process the first N companies (0 = all)")
	syncCmd.Flags().IntVar(&syncBatchSize, "batch-size", 0, "records per database transaction (0 = dataset default)")
	syncCmd.Flags().StringVar(&syncCSVPath, "csv", "", "explicit path to a screener export file")
	syncCmd.Flags().StringVar(&syncRunDate, "run-date", "", "logical run date (YYYY-MM-DD, default today)")
}
