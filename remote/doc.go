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


// Package remote searches show lines held in a hosted search index.
//
// The Client speaks the Algolia query REST API: a POST to
// /1/indexes/{index}/query authenticated with application id and API key
// headers. Configuration is loaded from a YAML file and validated so that
// blank or placeholder ("YOUR_...") credentials are rejected with
// ErrConfigMissing, letting callers fall back to local search.
package remote
