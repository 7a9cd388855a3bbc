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
	"time"

	"github.com/dlclark/regexp2"

	"github.com/poiesic/officelines/core"
)

// wildcardMatchTimeout bounds backtracking on pathological patterns.
const wildcardMatchTimeout = time.Second

// Matches reports whether line satisfies q. A nil line never matches.
func (e *Engine) Matches(line *core.Line, q Query) bool {
	if line == nil {
		return false
	}
	surface := surfaceOf(line)

	switch q := q.(type) {
	case PhraseQuery:
		for _, term := range q.Terms {
			if matchesPhrase(surface, term) {
				return true
			}
		}
		return false
	case WordListQuery:
		if len(q.Words) == 0 {
			return false
		}
		for _, word := range q.Words {
			if !e.matchesWord(surface, word) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func matchesPhrase(surface, term string) bool {
	if term == "" {
		return false
	}
	if strings.Contains(surface, term) {
		return true
	}
	words := splitWords(term)
	if len(words) < 2 {
		return false
	}
	return containsInOrder(surface, words)
}

func (e *Engine) matchesWord(surface, word string) bool {
	if isWildcard(word) {
		return e.matchesWildcard(surface, word)
	}
	if strings.Contains(surface, word) {
		return true
	}
	for _, synonym := range e.synonyms.values(word) {
		if strings.Contains(surface, synonym) {
			return true
		}
	}
	return false
}

// matchesWildcard tries the translated pattern and falls back to a substring
// check of the token without '*' when the pattern is unusable.
func (e *Engine) matchesWildcard(surface, token string) bool {
	re := e.compile(token)
	if re != nil {
		ok, err := re.MatchString(surface)
		if err == nil {
			return ok
		}
		e.logger.Debug("wildcard match failed, using substring", "token", token, "err", err)
	}
	return strings.Contains(surface, strings.ReplaceAll(token, "*", ""))
}

// compile returns the cached pattern for token, or nil if it does not compile.
// Failures are cached too.
func (e *Engine) compile(token string) *regexp2.Regexp {
	if re, ok := e.patterns.Get(token); ok {
		return re
	}

	re, err := regexp2.Compile(wildcardPattern(token), regexp2.IgnoreCase)
	if err != nil {
		e.logger.Debug("wildcard pattern did not compile, using substring", "token", token, "err", err)
		re = nil
	} else {
		re.MatchTimeout = wildcardMatchTimeout
	}
	e.patterns.Add(token, re)
	return re
}
