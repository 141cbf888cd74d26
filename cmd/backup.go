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
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stockdash/mdsync/backup"
	"github.com/stockdash/mdsync/store"
)

var (
	backupDir    string
	backupUpload bool
)

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup [dataset...]",
	Short: "Export dataset tables to compressed CSV files",
	Long: `The backup sub-command exports each named dataset table to a gzipped
CSV file. With no arguments every table is exported.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myStore, err := store.New(ctx, viper.GetString("db.url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer myStore.Close()

		asOf := time.Now().UTC()

		var files []string
		if len(args) == 0 {
			files = backup.Run(ctx, myStore, backupDir, asOf)
		} else {
			for _, dataset := range args {
				outName, err := backup.ExportTable(ctx, myStore, dataset, backupDir, asOf)
				if err != nil {
					log.Fatal().Err(err).Str("Dataset", dataset).Msg("table export failed")
				}
				files = append(files, outName)
			}
		}

		log.Info().Int("NumFiles", len(files)).Str("Dir", backupDir).Msg("backup complete")

		if !backupUpload {
			return
		}

		bucketName := viper.GetString("backblaze.bucket")
		dirname := asOf.Format("2006-01-02")
		for _, fn := range files {
			if err := backup.Upload(fn, bucketName, dirname); err != nil {
				log.Error().Err(err).Str("FileName", fn).Msg("upload failed, continuing")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)

	backupCmd.Flags().StringVar(&backupDir, "dir", ".", "directory to write export files to")
	backupCmd.Flags().BoolVar(&backupUpload, "upload", false, "upload exports to backblaze")
}
