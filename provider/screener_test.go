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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportDate(t *testing.T) {
	exportDate, err := ExportDate("/data/exports/screener_export_20250817.csv")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC), exportDate)

	_, err = ExportDate("screener_export.csv")
	assert.ErrorIs(t, err, ErrUndatedExport)

	_, err = ExportDate("screener_export_20251399.csv")
	assert.ErrorIs(t, err, ErrUndatedExport)
}

func TestExportPath(t *testing.T) {
	cfg := RunConfig{CSVPath: "/tmp/custom.csv"}
	assert.Equal(t, "/tmp/custom.csv", ExportPath(cfg))

	cfg = RunConfig{RunDate: time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "screener_export_20250817.csv", ExportPath(cfg))
}

func TestParseExport(t *testing.T) {
	csvData := `Name,NSE Code,BSE Code,Industry,Current Price,Market Capitalization,Sales,Profit after tax,OPM,EPS,Return on capital employed,Debt,Reserves,Price to Earning,Dividend Yield,Book Value,Promoter holding
Tata Consultancy Services,TCS,532540,IT Services,3500.50,1266000,240893,46099,26.5,127.5,64.3,8021,90127,27.5,1.8,249.5,71.8
Reliance Industries,RELIANCE,500325.0,Refineries,2450,1658000,901064,73670,nan,108.9,9.6,336337,709106,22.5,0.4,1046.2,50.3
Ghost Company,nan,nan,Unknown,nan,,,,,,,,,,,,
`

	path := filepath.Join(t.TempDir(), "screener_export_20250817.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0644))

	companies, err := ParseExport(path)
	require.NoError(t, err)
	require.Len(t, companies, 3)

	tcs := companies[0]
	assert.Equal(t, "TCS", tcs.Code)
	assert.Equal(t, "NSE", tcs.Exchange)
	require.NotNil(t, tcs.CurrentPrice)
	assert.True(t, tcs.CurrentPrice.Equal(mustDecimal(t, "3500.50")))

	ril := companies[1]
	assert.Equal(t, "RELIANCE", ril.Code)
	assert.Nil(t, ril.OPM, "nan parses as null")
	require.NotNil(t, ril.EPS)

	ghost := companies[2]
	_, ok := ghost.Key()
	assert.False(t, ok, "rows without a usable code have no key")
}

func TestParseExportMissingFile(t *testing.T) {
	_, err := ParseExport(filepath.Join(t.TempDir(), "screener_export_20250817.csv"))
	assert.Error(t, err)
}

func TestParseDecimal(t *testing.T) {
	assert.Nil(t, parseDecimal(""))
	assert.Nil(t, parseDecimal("  "))
	assert.Nil(t, parseDecimal("nan"))
	assert.Nil(t, parseDecimal("NaN"))
	assert.Nil(t, parseDecimal("not-a-number"))

	value := parseDecimal(" 42.50 ")
	require.NotNil(t, value)
	assert.True(t, value.Equal(mustDecimal(t, "42.5")))

	value = parseDecimal("₹ 1,266,000")
	require.NotNil(t, value)
	assert.True(t, value.Equal(mustDecimal(t, "1266000")))

	value = parseDecimal("26.5%")
	require.NotNil(t, value)
	assert.True(t, value.Equal(mustDecimal(t, "26.5")))
}
