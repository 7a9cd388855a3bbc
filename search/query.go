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


package search

import "strings"

// Query is a normalised search request. It is either a PhraseQuery or a
// WordListQuery.
type Query interface {
	// ExpandedTerms returns the deduplicated raw words or phrase followed by
	// their synonyms, in first-seen order.
	ExpandedTerms() []string
	isQuery()
}

// PhraseQuery is built from input containing a double quote.
type PhraseQuery struct {
	Phrase string
	Terms  []string
}

// WordListQuery is built from whitespace separated tokens. Every word must
// match for a line to be included.
type WordListQuery struct {
	Words []string
	Terms []string
}

func (q PhraseQuery) ExpandedTerms() []string   { return q.Terms }
func (q WordListQuery) ExpandedTerms() []string { return q.Terms }

func (PhraseQuery) isQuery()   {}
func (WordListQuery) isQuery() {}

// BuildQuery normalises raw input into a Query. The input is trimmed and
// lowercased. Blank input yields an empty WordListQuery; callers normally
// short-circuit before getting here. Whitespace left inside the quotes is
// part of the phrase.
func (e *Engine) BuildQuery(raw string) Query {
	input := strings.ToLower(strings.TrimSpace(raw))

	if strings.Contains(input, `"`) {
		phrase := strings.ReplaceAll(input, `"`, "")
		q := PhraseQuery{Phrase: phrase}
		if phrase != "" {
			q.Terms = e.expand([]string{phrase})
		}
		return q
	}

	words := strings.Fields(input)
	return WordListQuery{Words: words, Terms: e.expand(words)}
}

// expand returns tokens plus their synonyms without duplicates.
func (e *Engine) expand(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	terms := make([]string, 0, len(tokens))
	add := func(term string) {
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	for _, token := range tokens {
		add(token)
		if isWildcard(token) {
			continue
		}
		for _, synonym := range e.synonyms.values(token) {
			add(synonym)
		}
	}
	return terms
}

func isWildcard(token string) bool {
	return strings.ContainsAny(token, "*?")
}
