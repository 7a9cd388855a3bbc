// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ingestion loads show lines from CSV sources into a line store.
//
// ParseCSV turns a CSV export into validated core.Line values, skipping rows
// that are malformed or flagged as deleted. Pipeline writes the parsed lines
// to a storage.LineRepository in batches on a worker pool and records a
// content digest per source, so an unchanged file is not imported twice.
package ingestion
