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

	"github.com/stockdash/mdsync/reconcile"
)

type ActionType string

const (
	Dividend ActionType = "dividend"
	Split    ActionType = "split"
	Bonus    ActionType = "bonus"
)

type ActionKey struct {
	Code string
	Date string
	Type ActionType
}

// CorporateAction is a dividend, split, or bonus event. Only the details
// text is tracked for change; a re-announced event with different terms
// updates the stored row.
type CorporateAction struct {
	Code    string     `db:"company_code" csv:"company_code"`
	Name    string     `db:"company_name" csv:"company_name"`
	Date    time.Time  `db:"event_date" csv:"event_date"`
	Type    ActionType `db:"action_type" csv:"action_type"`
	Details string     `db:"details" csv:"details"`
}

func (action *CorporateAction) Key() (ActionKey, bool) {
	if !reconcile.ValidCode(action.Code) || action.Date.IsZero() || action.Type == "" {
		return ActionKey{}, false
	}

	return ActionKey{
		Code: action.Code,
		Date: action.Date.Format(DateOnly),
		Type: action.Type,
	}, true
}

func (action *CorporateAction) Changed(old *CorporateAction) bool {
	return reconcile.StringChanged(old.Details, action.Details)
}

func (action *CorporateAction) Merge(old *CorporateAction) *CorporateAction {
	merged := *action
	merged.Details = reconcile.MergeString(old.Details, action.Details)
	return &merged
}

func (action *CorporateAction) UpsertSQL(tbl string) string {
	return `INSERT INTO ` + tbl + ` (
	"company_code",
	"company_name",
	"event_date",
	"action_type",
	"details",
	"last_modified"
) VALUES (
	$1, $2, $3, $4, $5, $6
) ON CONFLICT (company_code, event_date, action_type) DO UPDATE SET
	details = COALESCE(NULLIF(EXCLUDED.details, ''), ` + tbl + `.details),
	last_modified = EXCLUDED.last_modified`
}

func (action *CorporateAction) UpsertArgs(runDate time.Time) []any {
	return []any{
		action.Code, action.Name, action.Date, action.Type, action.Details, runDate,
	}
}
