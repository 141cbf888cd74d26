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
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/stockdash/mdsync/data"
	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary returns a markdown description of the database: row counts per
// table and write freshness, for rendering by the info command.
func (myStore *Store) Summary(ctx context.Context) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	builder.WriteString("# Market database\n\n")
	builder.WriteString(fmt.Sprintf("Database: %s\n\n", myStore.DBUrl))
	builder.WriteString("## Datasets\n\n")

	names := make([]string, 0, len(data.DataTypes))
	for name := range data.DataTypes {
		names = append(names, name)
	}
	sort.Strings(names)

	conn, err := myStore.Pool.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Release()

	var newest time.Time

	for _, name := range names {
		dataType := data.DataTypes[name]

		var (
			count        int64
			lastModified *time.Time
		)

		sql := fmt.Sprintf(`SELECT count(*), max(last_modified) FROM %s`, dataType.Table)
		if err := conn.QueryRow(ctx, sql).Scan(&count, &lastModified); err != nil {
			return "", fmt.Errorf("summarize %s: %w", dataType.Table, err)
		}

		freshness := "never"
		if lastModified != nil {
			freshness = timeago.English.Format(*lastModified)
			if lastModified.After(newest) {
				newest = *lastModified
			}
		}

		builder.WriteString(p.Sprintf("  * %s: %d rows (updated %s)\n", dataType.Table, count, freshness))
	}

	builder.WriteString("\n")

	if newest.IsZero() {
		builder.WriteString("Last Updated: Never\n")
	} else {
		builder.WriteString(fmt.Sprintf("Last Updated: %s (%s)\n",
			timeago.English.Format(newest), newest.Local().Format("01/02/2006")))
	}

	return builder.String(), nil
}
