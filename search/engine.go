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
	"log/slog"
	"strings"
	"sync"

	"github.com/dlclark/regexp2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/poiesic/officelines/core"
)

// DefaultPatternCacheSize is the number of compiled wildcard patterns an
// Engine keeps by default.
const DefaultPatternCacheSize = 128

// Engine matches lines against free-text queries.
type Engine struct {
	synonyms  *SynonymTable
	cacheSize int
	patterns  *lru.Cache[string, *regexp2.Regexp]
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithSynonyms replaces the built-in synonym table.
func WithSynonyms(table *SynonymTable) Option {
	return func(e *Engine) error {
		if table == nil {
			return ErrSynonymTableRequired
		}
		e.synonyms = table
		return nil
	}
}

// WithPatternCacheSize sets how many compiled wildcard patterns are retained.
// Default is DefaultPatternCacheSize.
func WithPatternCacheSize(size int) Option {
	return func(e *Engine) error {
		if size <= 0 {
			return ErrInvalidCacheSize
		}
		e.cacheSize = size
		return nil
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		synonyms:  defaultSynonyms,
		cacheSize: DefaultPatternCacheSize,
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	patterns, err := lru.New[string, *regexp2.Regexp](e.cacheSize)
	if err != nil {
		return nil, err
	}
	e.patterns = patterns

	return e, nil
}

// Search returns the lines matching raw, in their original order.
// Blank input returns an empty slice.
func (e *Engine) Search(lines []*core.Line, raw string) []*core.Line {
	return e.SearchWithMonitor(lines, raw, nil)
}

// SearchWithMonitor is Search with callbacks at each stage.
func (e *Engine) SearchWithMonitor(lines []*core.Line, raw string, monitor SearchMonitor) []*core.Line {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(raw)

	if strings.TrimSpace(raw) == "" {
		results := []*core.Line{}
		monitor.Finish(results)
		return results
	}

	query := e.BuildQuery(raw)
	monitor.AfterQueryBuilt(query)

	results := make([]*core.Line, 0)
	for _, line := range lines {
		if e.Matches(line, query) {
			monitor.Hit(line)
			results = append(results, line)
		}
	}

	e.logger.Debug("search complete", "query", raw, "candidates", len(lines), "hits", len(results))
	monitor.Finish(results)

	return results
}

var defaultEngine = sync.OnceValue(func() *Engine {
	// The default options cannot fail.
	e, _ := NewEngine()
	return e
})

// Search runs raw against lines using an engine with the built-in synonyms.
func Search(lines []*core.Line, raw string) []*core.Line {
	return defaultEngine().Search(lines, raw)
}
