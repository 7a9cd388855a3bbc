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
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/officelines/core"
)

// surfaceOf returns the text searched for a line: its lowercase text and
// speaker joined by a single space.
func surfaceOf(line *core.Line) string {
	return strings.ToLower(line.Text) + " " + strings.ToLower(line.Speaker)
}

// splitWords splits s at every whitespace character. Unlike strings.Fields
// it keeps the empty words between adjacent separators and at either end.
func splitWords(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if unicode.IsSpace(r) {
			words = append(words, s[start:i])
			start = i + utf8.RuneLen(r)
		}
	}
	return append(words, s[start:])
}

// containsInOrder reports whether every word of phrase is found, left to
// right, inside successive whitespace separated tokens of surface. Unrelated
// tokens may sit between matched words. An empty word is never found.
func containsInOrder(surface string, words []string) bool {
	if len(words) == 0 {
		return false
	}

	next := 0
	for _, token := range strings.Fields(surface) {
		if words[next] != "" && strings.Contains(token, words[next]) {
			next++
			if next == len(words) {
				return true
			}
		}
	}
	return false
}

// wildcardPattern translates '*' and '?' into pattern syntax. All other
// characters are passed through untouched, so they keep any meaning they
// have as pattern syntax.
func wildcardPattern(token string) string {
	var b strings.Builder
	b.Grow(len(token) + 4)
	for _, r := range token {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
