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

// Package healthcheck pings healthchecks.io around each dataset run so a
// missed or failed sync pages the operator. All pings are best-effort: a
// monitoring outage never affects the run itself.
package healthcheck

import (
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	ErrStatus = errors.New("status code is invalid")
)

// CheckSlug converts a dataset key into the check slug used with the
// ping API.
func CheckSlug(dataset string) string {
	return slug.Make(fmt.Sprintf("mdsync %s", dataset))
}

func ping(path string) error {
	pingKey := viper.GetString("healthchecks.ping_key")
	if pingKey == "" {
		return nil
	}

	client := resty.New()
	resp, err := client.R().Post(fmt.Sprintf("https://hc-ping.com/%s/%s", pingKey, path))
	if err != nil {
		return err
	}

	if resp.StatusCode() >= 300 {
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	return nil
}

// Start signals that a dataset run has begun.
func Start(dataset string) {
	if err := ping(fmt.Sprintf("%s/start", CheckSlug(dataset))); err != nil {
		log.Warn().Err(err).Str("Dataset", dataset).Msg("healthcheck start ping failed")
	}
}

// Success signals that a dataset run finished.
func Success(dataset string) {
	if err := ping(CheckSlug(dataset)); err != nil {
		log.Warn().Err(err).Str("Dataset", dataset).Msg("healthcheck success ping failed")
	}
}

// Fail signals that a dataset run could not start or aborted.
func Fail(dataset string) {
	if err := ping(fmt.Sprintf("%s/fail", CheckSlug(dataset))); err != nil {
		log.Warn().Err(err).Str("Dataset", dataset).Msg("healthcheck fail ping failed")
	}
}
