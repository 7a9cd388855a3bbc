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
	"cmp"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/poiesic/officelines/core"
)

// SpeakerCount is a distinct speaker name and how many lines it has.
type SpeakerCount struct {
	Name  string
	Lines int
}

// CountSpeakers returns the distinct non-empty speakers in lines, most
// prolific first and then by name.
func CountSpeakers(lines []*core.Line) []SpeakerCount {
	index := make(map[string]int)
	var counts []SpeakerCount
	for _, line := range lines {
		if line == nil {
			continue
		}
		name := strings.TrimSpace(line.Speaker)
		if name == "" {
			continue
		}
		if i, ok := index[name]; ok {
			counts[i].Lines++
			continue
		}
		index[name] = len(counts)
		counts = append(counts, SpeakerCount{Name: name, Lines: 1})
	}

	slices.SortStableFunc(counts, func(a, b SpeakerCount) int {
		if c := cmp.Compare(b.Lines, a.Lines); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return counts
}

// FilterSpeakers fuzzy-matches pattern against speaker names, best match
// first. An empty pattern returns counts unchanged.
func FilterSpeakers(counts []SpeakerCount, pattern string) []SpeakerCount {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return counts
	}

	matches := fuzzy.FindFrom(pattern, speakerSource(counts))
	result := make([]SpeakerCount, len(matches))
	for i, m := range matches {
		result[i] = counts[m.Index]
	}
	return result
}

// SuggestSpeakers returns up to limit speaker names resembling input. It backs
// the "did you mean" hint shown when a search finds nothing. A limit of zero or
// less returns every match.
func SuggestSpeakers(lines []*core.Line, input string, limit int) []string {
	if strings.TrimSpace(input) == "" {
		return []string{}
	}

	matches := FilterSpeakers(CountSpeakers(lines), input)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}
	return names
}

// speakerSource implements fuzzy.Source over lowercased speaker names.
type speakerSource []SpeakerCount

func (s speakerSource) String(i int) string { return strings.ToLower(s[i].Name) }
func (s speakerSource) Len() int            { return len(s) }
