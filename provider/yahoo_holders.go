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
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stockdash/mdsync/data"
	"github.com/stockdash/mdsync/reconcile"
	"github.com/stockdash/mdsync/store"
	"github.com/stockdash/mdsync/symbols"
)

const defaultHolderBatch = 25

func syncHolders(ctx context.Context, myStore *store.Store, cfg RunConfig) (*data.RunSummary, error) {
	summary := data.NewRunSummary(data.HoldersKey, cfg.RunDate)

	companies, err := myStore.ActiveCompanies(ctx, cfg.Limit)
	if err != nil {
		return nil, err
	}

	symbols.LoadCache(ctx, companies)
	client, limiter := yahooClient()
	loc := marketTZ()

	for _, batch := range store.Chunk(companies, cfg.BatchSizeOr(defaultHolderBatch)) {
		codes := make([]string, 0, len(batch))
		incoming := make([]*data.Holder, 0, len(batch)*16)

		for _, company := range batch {
			code, ok := company.Key()
			if !ok {
				continue
			}

			symbol, ok := symbols.Lookup(code)
			if !ok {
				continue
			}

			result, err := fetchQuoteSummary(ctx, client, limiter, symbol,
				"institutionOwnership,fundOwnership,majorHoldersBreakdown")
			if err != nil {
				log.Error().Err(err).Str("CompanyCode", code).Str("Symbol", symbol).
					Msg("holder fetch failed, skipping company")
				summary.Errors++
				continue
			}

			codes = append(codes, code)

			if result.InstitutionOwnership != nil {
				for _, row := range result.InstitutionOwnership.OwnershipList {
					incoming = append(incoming, holderRow(code, company.Name, data.Institutional, row, loc))
				}
			}

			if result.FundOwnership != nil {
				for _, row := range result.FundOwnership.OwnershipList {
					incoming = append(incoming, holderRow(code, company.Name, data.MutualFundCo, row, loc))
				}
			}

			if result.MajorHoldersBreakdown != nil {
				incoming = append(incoming, majorHolderRows(code, company.Name,
					result.MajorHoldersBreakdown, cfg)...)
			}
		}

		if len(incoming) == 0 {
			continue
		}

		existing, err := myStore.ExistingHolders(ctx, codes)
		if err != nil {
			log.Error().Err(err).Msg("loading existing holders failed, skipping batch")
			summary.Errors += len(incoming)
			continue
		}

		writeBatch(ctx, myStore, data.DataTypes[data.HoldersKey].Table,
			reconcile.Records(existing, incoming), summary)
	}

	return summary.Finish(), nil
}

func holderRow(code, name string, holderType data.HolderType, row ownershipRow,
	loc *time.Location) *data.Holder {
	return &data.Holder{
		Code:           code,
		Name:           name,
		Date:           row.ReportDate.Time(loc),
		HolderName:     row.Organization,
		HolderType:     holderType,
		SharesHeld:     row.Position.Int64(),
		PercentageHeld: row.PctHeld.Decimal(),
		Value:          row.Value.Decimal(),
		Currency:       "INR",
	}
}

// majorHolderRows flattens the breakdown percentages into two synthetic
// holder rows dated by the logical run date, since the API reports no
// as-of date for them.
func majorHolderRows(code, name string, breakdown *majorHoldersBreakdown, cfg RunConfig) []*data.Holder {
	rows := make([]*data.Holder, 0, 2)

	if pct := breakdown.InsidersPercentHeld.Decimal(); pct != nil {
		rows = append(rows, &data.Holder{
			Code:           code,
			Name:           name,
			Date:           cfg.RunDate,
			HolderName:     "Insiders",
			HolderType:     data.Major,
			PercentageHeld: pct,
		})
	}

	if pct := breakdown.InstitutionsPercentHeld.Decimal(); pct != nil {
		rows = append(rows, &data.Holder{
			Code:           code,
			Name:           name,
			Date:           cfg.RunDate,
			HolderName:     "Institutions",
			HolderType:     data.Major,
			PercentageHeld: pct,
		})
	}

	return rows
}
