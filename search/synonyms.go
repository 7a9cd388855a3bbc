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

import (
	"maps"
	"slices"
	"strings"
)

// SynonymTable maps a lowercase word to its lowercase alternatives.
// Lookups are exact-key and single hop. A table is read-only once built.
type SynonymTable struct {
	entries map[string][]string
}

// NewSynonymTable builds a table from entries. Keys and values are lowercased
// and the input map is copied, so later changes to it have no effect.
func NewSynonymTable(entries map[string][]string) *SynonymTable {
	t := &SynonymTable{entries: make(map[string][]string, len(entries))}
	for key, values := range entries {
		lowered := make([]string, 0, len(values))
		for _, v := range values {
			lowered = append(lowered, strings.ToLower(v))
		}
		t.entries[strings.ToLower(key)] = lowered
	}
	return t
}

// Lookup returns a copy of the synonyms registered for word.
func (t *SynonymTable) Lookup(word string) ([]string, bool) {
	values, ok := t.entries[word]
	if !ok {
		return nil, false
	}
	return slices.Clone(values), true
}

// Len returns the number of keys in the table.
func (t *SynonymTable) Len() int {
	return len(t.entries)
}

// Keys returns the table keys in sorted order.
func (t *SynonymTable) Keys() []string {
	return slices.Sorted(maps.Keys(t.entries))
}

// values is the allocation-free lookup used on the matching path.
func (t *SynonymTable) values(word string) []string {
	return t.entries[word]
}

// clique adds every word as a key mapping to all the other words.
func clique(entries map[string][]string, words ...string) {
	for i, w := range words {
		others := make([]string, 0, len(words)-1)
		others = append(others, words[:i]...)
		others = append(others, words[i+1:]...)
		entries[w] = others
	}
}

func defaultEntries() map[string][]string {
	entries := map[string][]string{
		"wouldn't": {"would not", "wouldnt", "won't", "wont"},
		"won't":    {"will not", "would not", "wouldn't", "wont"},
		"it's":     {"it is", "its"},
		"you're":   {"you are"},
		"don't":    {"do not", "dont"},
		"can't":    {"cannot", "can not"},
		"isn't":    {"is not"},
		"aren't":   {"are not"},
	}

	clique(entries, "understand", "get", "comprehend", "grasp", "realize", "see", "know")

	// "classified" is a synonym of the others but deliberately not a key.
	clique(entries, "secret", "confidential", "private", "hidden", "classified")
	delete(entries, "classified")

	clique(entries, "said", "told", "mentioned", "stated", "spoke")
	clique(entries, "what", "which", "that")
	clique(entries, "awesome", "great", "amazing", "fantastic", "wonderful")

	return entries
}

var defaultSynonyms = NewSynonymTable(defaultEntries())

// DefaultSynonyms returns the built-in synonym table shared by all engines
// that are not given their own.
func DefaultSynonyms() *SynonymTable {
	return defaultSynonyms
}
