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


package officelines

import (
	"context"
	"os"

	"github.com/poiesic/officelines/core"
	"github.com/poiesic/officelines/ingestion"
	"github.com/poiesic/officelines/search"
)

// Corpus is an in-memory set of lines with a search engine over it.
type Corpus struct {
	lines  []*core.Line
	engine *search.Engine
}

var _ LineSearcher = (*Corpus)(nil)

// NewCorpus searches lines with an engine built from opts.
func NewCorpus(lines []*core.Line, opts ...search.Option) (*Corpus, error) {
	engine, err := search.NewEngine(opts...)
	if err != nil {
		return nil, err
	}
	return &Corpus{lines: lines, engine: engine}, nil
}

// SampleCorpus is a Corpus over core.SampleLines.
func SampleCorpus(opts ...search.Option) (*Corpus, error) {
	return NewCorpus(core.SampleLines(), opts...)
}

// LoadCorpus parses the CSV file at path into a Corpus without storing it.
func LoadCorpus(path string, opts ...search.Option) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parsed, err := ingestion.ParseCSV(f)
	if err != nil {
		return nil, err
	}
	return NewCorpus(parsed.Lines, opts...)
}

// Lines returns the lines in the corpus.
func (c *Corpus) Lines() []*core.Line {
	return c.lines
}

// Search returns the lines matching query in corpus order.
func (c *Corpus) Search(_ context.Context, query string) ([]*core.Line, error) {
	return c.engine.Search(c.lines, query), nil
}
