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

// Map indexes all configured providers by name.
var Map = map[string]Provider{
	"yahoo":    &Yahoo{},
	"screener": &Screener{},
}

// LookupDataset finds a dataset by key across all providers.
func LookupDataset(key string) (Provider, Dataset, bool) {
	for _, prov := range Map {
		if dataset, ok := prov.Datasets()[key]; ok {
			return prov, dataset, true
		}
	}

	return nil, Dataset{}, false
}

// DatasetKeys lists every dataset key across all providers.
func DatasetKeys() []string {
	keys := make([]string, 0, 16)
	for _, prov := range Map {
		for key := range prov.Datasets() {
			keys = append(keys, key)
		}
	}
	return keys
}
