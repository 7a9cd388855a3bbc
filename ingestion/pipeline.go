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


package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/officelines/core"
	"github.com/poiesic/officelines/storage"
)

// DefaultBatchSize is the number of lines written per storage call.
const DefaultBatchSize = 500

// Pipeline imports CSV line exports into a line store.
// Batches are written concurrently on a worker pool.
type Pipeline struct {
	lineRepository       storage.LineRepository
	checkpointRepository storage.CheckpointRepository
	pool                 *ants.Pool
	batchSize            int
	progress             io.Writer
	logger               *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent batch writes.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
			p.pool = nil
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many lines are written per batch.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithProgress writes import progress to w. Nil disables progress output,
// which is the default.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	lineRepository storage.LineRepository,
	checkpointRepository storage.CheckpointRepository,
	opts ...Option,
) (*Pipeline, error) {
	if lineRepository == nil {
		return nil, ErrLineRepositoryRequired
	}
	if checkpointRepository == nil {
		return nil, ErrCheckpointRepositoryRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	// Create pipeline with defaults
	p := &Pipeline{
		lineRepository:       lineRepository,
		checkpointRepository: checkpointRepository,
		pool:                 pool,
		batchSize:            DefaultBatchSize,
		logger:               slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// ImportResult summarises a single import.
type ImportResult struct {
	Source    string
	Digest    core.ID
	Imported  int  // Lines written, or the checkpointed count when Unchanged
	Skipped   int  // Malformed rows
	Deleted   int  // Rows flagged as deleted
	Removed   int  // Stored lines pruned because they are no longer live
	Unchanged bool // The source matched its checkpoint and was not re-read
}

// ImportFile reads the CSV file at path and imports it using the path as the
// source name.
func (p *Pipeline) ImportFile(ctx context.Context, path string, force bool) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Import(ctx, path, data, force)
}

// Import parses data as a CSV line export and writes every valid line to the
// line store. The store mirrors the latest export: stored lines that are
// flagged as deleted or missing from data are removed. Unless force is set,
// data whose digest matches the checkpoint for source is not imported again.
// The checkpoint is only updated after all batches have been stored.
func (p *Pipeline) Import(ctx context.Context, source string, data []byte, force bool) (*ImportResult, error) {
	if source == "" {
		return nil, ErrEmptySource
	}

	result := &ImportResult{
		Source: source,
		Digest: core.IDFromContent(string(data)),
	}

	if !force {
		checkpoint, err := p.checkpointRepository.LoadCheckpoint(ctx, source)
		if err != nil {
			p.logger.Error("error loading checkpoint", "source", source, "err", err)
			return nil, err
		}
		if checkpoint != nil && checkpoint.Digest == result.Digest {
			p.logger.Info("source unchanged, skipping import", "source", source, "lines", checkpoint.Count)
			result.Imported = checkpoint.Count
			result.Unchanged = true
			return result, nil
		}
	}

	parsed, err := ParseCSV(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	result.Skipped = parsed.Skipped
	result.Deleted = parsed.Deleted

	if parsed.Skipped > 0 {
		p.logger.Warn("skipped malformed rows", "source", source, "count", parsed.Skipped)
	}

	if err := p.store(ctx, parsed.Lines); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImportFailed, source, err)
	}
	result.Imported = len(parsed.Lines)

	removed, err := p.prune(ctx, parsed.Lines)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImportFailed, source, err)
	}
	result.Removed = removed

	err = p.checkpointRepository.SaveCheckpoint(ctx, &core.Checkpoint{
		Source: source,
		Digest: result.Digest,
		Count:  result.Imported,
	})
	if err != nil {
		p.logger.Error("error saving checkpoint", "source", source, "err", err)
		return nil, err
	}

	p.logger.Info("import complete", "source", source,
		"imported", result.Imported, "skipped", result.Skipped, "deleted", result.Deleted,
		"removed", result.Removed)
	return result, nil
}

// store writes lines in batches on the pool and waits for all of them.
func (p *Pipeline) store(ctx context.Context, lines []*core.Line) error {
	var tracker *ProgressTracker
	if p.progress != nil {
		tracker = NewProgressTracker(p.progress, len(lines), p.batchSize)
		tracker.Start()
		defer tracker.Finish()
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for start := 0; start < len(lines); start += p.batchSize {
		batch := lines[start:min(start+p.batchSize, len(lines))]

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}
			if _, err := p.lineRepository.AddLines(ctx, batch...); err != nil {
				p.logger.Error("error storing batch", "first", batch[0].Id, "size", len(batch), "err", err)
				fail(err)
				return
			}
			if tracker != nil {
				tracker.Add(len(batch))
			}
		})
		if err != nil {
			wg.Done()
			fail(err)
			break
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}

// prune deletes stored lines whose ids are not among live.
func (p *Pipeline) prune(ctx context.Context, live []*core.Line) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	keep := make(map[core.ID]struct{}, len(live))
	for _, line := range live {
		keep[line.Id] = struct{}{}
	}

	stored, err := p.lineRepository.AllLines(ctx)
	if err != nil {
		return 0, err
	}
	var stale []core.ID
	for _, line := range stored {
		if _, ok := keep[line.Id]; !ok {
			stale = append(stale, line.Id)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	if err := p.lineRepository.DeleteLines(ctx, stale...); err != nil {
		p.logger.Error("error removing stale lines", "count", len(stale), "err", err)
		return 0, err
	}
	p.logger.Debug("removed stale lines", "count", len(stale))
	return len(stale), nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
