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
package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stockdash/mdsync/data"
	"github.com/stockdash/mdsync/reconcile"
	"github.com/stockdash/mdsync/store"
	"github.com/stockdash/mdsync/symbols"
)

var (
	ErrUndatedExport = errors.New("export filename carries no date")

	exportDatePattern = regexp.MustCompile(`\d{8}`)
)

const defaultCompanyBatch = 100

type Screener struct {
}

func (screener *Screener) Name() string {
	return "screener"
}

func (screener *Screener) ConfigDescription() map[string]string {
	return map[string]string{
		"csvDir": "What directory are screener exports downloaded to?",
	}
}

func (screener *Screener) Description() string {
	return `Screener.in exports the fundamental snapshot of all NSE/BSE listed
companies as a dated CSV file. The export date is the logical run date for
every row in the file.`
}

func (screener *Screener) Datasets() map[string]Dataset {
	return map[string]Dataset{
		data.CompaniesKey: {
			Name:        "Companies",
			Description: "Listed company master data from the daily screener export.",
			DataTypes:   []*data.DataType{data.DataTypes[data.CompaniesKey]},
			Sync:        syncCompanies,
		},
	}
}

// ExportDate extracts the YYYYMMDD date embedded in an export filename.
func ExportDate(filename string) (time.Time, error) {
	match := exportDatePattern.FindString(filepath.Base(filename))
	if match == "" {
		return time.Time{}, fmt.Errorf("%w: %s", ErrUndatedExport, filename)
	}

	exportDate, err := time.Parse("20060102", match)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrUndatedExport, filename)
	}

	return exportDate, nil
}

// ExportPath resolves the export file for a run: an explicit path wins,
// otherwise the conventionally named file in the configured directory.
func ExportPath(cfg RunConfig) string {
	if cfg.CSVPath != "" {
		return cfg.CSVPath
	}

	return filepath.Join(viper.GetString("screener.csv_dir"),
		fmt.Sprintf("screener_export_%s.csv", cfg.RunDate.Format("20060102")))
}

// screenerRow is the raw CSV shape; numeric columns are parsed leniently
// because pandas-produced exports write blanks and "nan" for missing
// values.
type screenerRow struct {
	Name            string `csv:"Name"`
	NSECode         string `csv:"NSE Code"`
	BSECode         string `csv:"BSE Code"`
	Industry        string `csv:"Industry"`
	CurrentPrice    string `csv:"Current Price"`
	MarketCap       string `csv:"Market Capitalization"`
	Sales           string `csv:"Sales"`
	ProfitAfterTax  string `csv:"Profit after tax"`
	OPM             string `csv:"OPM"`
	EPS             string `csv:"EPS"`
	ROCE            string `csv:"Return on capital employed"`
	Debt            string `csv:"Debt"`
	Reserves        string `csv:"Reserves"`
	PriceToEarning  string `csv:"Price to Earning"`
	DividendYield   string `csv:"Dividend Yield"`
	BookValue       string `csv:"Book Value"`
	PromoterHolding string `csv:"Promoter holding"`
}

func (row *screenerRow) company() *data.Company {
	company := &data.Company{
		Name:            strings.TrimSpace(row.Name),
		NSECode:         strings.TrimSpace(row.NSECode),
		BSECode:         strings.TrimSpace(row.BSECode),
		Industry:        strings.TrimSpace(row.Industry),
		CurrentPrice:    parseDecimal(row.CurrentPrice),
		MarketCap:       parseDecimal(row.MarketCap),
		Sales:           parseDecimal(row.Sales),
		ProfitAfterTax:  parseDecimal(row.ProfitAfterTax),
		OPM:             parseDecimal(row.OPM),
		EPS:             parseDecimal(row.EPS),
		ROCE:            parseDecimal(row.ROCE),
		Debt:            parseDecimal(row.Debt),
		Reserves:        parseDecimal(row.Reserves),
		PriceToEarning:  parseDecimal(row.PriceToEarning),
		DividendYield:   parseDecimal(row.DividendYield),
		BookValue:       parseDecimal(row.BookValue),
		PromoterHolding: parseDecimal(row.PromoterHolding),
	}

	company.Code = company.UnifiedCode()
	_, company.Exchange = symbols.ForCompany(company)

	return company
}

// parseDecimal converts one numeric CSV field, treating blanks, "nan",
// and unparseable text as null. Thousands separators, currency symbols,
// and percent signs are stripped first.
func parseDecimal(field string) *decimal.Decimal {
	field = strings.TrimSpace(field)
	if field == "" || strings.EqualFold(field, "nan") {
		return nil
	}

	for _, junk := range []string{",", "%", "₹", "Rs.", "Rs"} {
		field = strings.ReplaceAll(field, junk, "")
	}
	field = strings.TrimSpace(field)

	value, err := decimal.NewFromString(field)
	if err != nil {
		return nil
	}

	return &value
}

// ParseExport reads one screener CSV into company rows.
func ParseExport(path string) ([]*data.Company, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer fh.Close()

	var rows []*screenerRow
	if err := gocsv.UnmarshalFile(fh, &rows); err != nil {
		return nil, fmt.Errorf("parse export %s: %w", path, err)
	}

	companies := make([]*data.Company, 0, len(rows))
	for _, row := range rows {
		companies = append(companies, row.company())
	}

	return companies, nil
}

func syncCompanies(ctx context.Context, myStore *store.Store, cfg RunConfig) (*data.RunSummary, error) {
	path := ExportPath(cfg)

	// the file's embedded date, not the wall clock, is the logical run
	// date for every row it contains
	exportDate, err := ExportDate(path)
	if err != nil {
		return nil, err
	}

	summary := data.NewRunSummary(data.CompaniesKey, exportDate)

	incoming, err := ParseExport(path)
	if err != nil {
		return nil, err
	}

	if cfg.Limit > 0 && len(incoming) > cfg.Limit {
		incoming = incoming[:cfg.Limit]
	}

	existing, err := myStore.ExistingCompanies(ctx)
	if err != nil {
		return nil, err
	}

	result := reconcile.Records(existing, incoming)
	summary.Processed += result.Processed()
	summary.Unchanged += len(result.Unchanged)
	summary.Rejected += len(result.Rejected)
	summary.Duplicates += result.Duplicates

	if result.Duplicates > 0 {
		log.Warn().Int("Duplicates", result.Duplicates).Str("Path", path).
			Msg("export contained duplicate company codes")
	}

	changed := make([]data.Record, 0, len(result.Inserts)+len(result.Updates))
	inserts := make(map[string]bool, len(result.Inserts))
	for _, company := range result.Inserts {
		changed = append(changed, company)
		if code, ok := company.Key(); ok {
			inserts[code] = true
		}
	}
	for _, update := range result.Updates {
		changed = append(changed, update.Record)
	}

	tbl := data.DataTypes[data.CompaniesKey].Table
	for _, batch := range store.Chunk(changed, cfg.BatchSizeOr(defaultCompanyBatch)) {
		if _, err := myStore.UpsertBatch(ctx, tbl, batch, exportDate); err != nil {
			log.Error().Err(err).Str("Table", tbl).Int("BatchSize", len(batch)).
				Msg("company batch upsert failed, continuing with next batch")
			summary.Errors += len(batch)
			continue
		}

		for _, record := range batch {
			if company, ok := record.(*data.Company); ok {
				if code, keyed := company.Key(); keyed && inserts[code] {
					summary.Inserted++
					continue
				}
			}
			summary.Updated++
		}
	}

	return summary.Finish(), nil
}
