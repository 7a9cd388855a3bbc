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


// Package search implements the local text-matching engine for show lines.
//
// A raw query is normalised into either a PhraseQuery (the input contained a
// double quote) or a WordListQuery (whitespace separated tokens). Both carry
// the expanded term set produced by a single-hop lookup in a SynonymTable.
//
// Matching is boolean. A line matches a word list only if every token matches
// its searchable surface, which is the lowercase text followed by the
// lowercase speaker name. Tokens containing '*' or '?' are translated into a
// case-insensitive pattern; if the pattern cannot be compiled the token is
// compared as a plain substring with '*' removed.
//
// The Engine never mutates its inputs and is safe for concurrent use.
package search
