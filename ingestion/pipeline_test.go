package ingestion

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/officelines/core"
	"github.com/poiesic/officelines/storage"
	"github.com/poiesic/officelines/storage/badger"
	"github.com/poiesic/officelines/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepositories(t *testing.T) (storage.LineRepository, storage.CheckpointRepository) {
	lineRepo, checkpointRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		lineRepo.Close()
		backend.Close()
	})
	return lineRepo, checkpointRepo
}

func setupPipeline(t *testing.T, lines storage.LineRepository, checkpoints storage.CheckpointRepository, opts ...Option) *Pipeline {
	p, err := NewPipeline(lines, checkpoints, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

// failingLineRepository rejects every write.
type failingLineRepository struct {
	storage.LineRepository
}

func (f *failingLineRepository) AddLines(ctx context.Context, lines ...*core.Line) ([]*core.Line, error) {
	return nil, errors.New("disk full")
}

func TestNewPipeline(t *testing.T) {
	lineRepo, checkpointRepo := setupRepositories(t)

	t.Run("valid configuration", func(t *testing.T) {
		p, err := NewPipeline(lineRepo, checkpointRepo)
		require.NoError(t, err)
		defer p.Release()
		assert.Equal(t, DefaultBatchSize, p.batchSize)
	})

	t.Run("with options", func(t *testing.T) {
		p, err := NewPipeline(lineRepo, checkpointRepo,
			WithPoolSize(3), WithBatchSize(0), WithLogger(nil), WithProgress(&bytes.Buffer{}))
		require.NoError(t, err)
		defer p.Release()
		assert.Equal(t, 3, p.pool.Cap())
		assert.Equal(t, 1, p.batchSize)
		assert.NotNil(t, p.logger)
	})

	t.Run("custom logger", func(t *testing.T) {
		logger := slog.Default()
		p, err := NewPipeline(lineRepo, checkpointRepo, WithLogger(logger))
		require.NoError(t, err)
		defer p.Release()
		assert.Same(t, logger, p.logger)
	})

	t.Run("nil line repository", func(t *testing.T) {
		_, err := NewPipeline(nil, checkpointRepo)
		assert.Equal(t, ErrLineRepositoryRequired, err)
	})

	t.Run("nil checkpoint repository", func(t *testing.T) {
		_, err := NewPipeline(lineRepo, nil)
		assert.Equal(t, ErrCheckpointRepositoryRequired, err)
	})
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	lineRepo, checkpointRepo := setupRepositories(t)
	var progress bytes.Buffer
	p := setupPipeline(t, lineRepo, checkpointRepo, WithBatchSize(2), WithPoolSize(3), WithProgress(&progress))

	result, err := p.Import(ctx, "lines.csv", []byte(sampleCSV), false)
	require.NoError(t, err)
	assert.False(t, result.Unchanged)
	assert.Equal(t, 5, result.Imported)
	assert.Equal(t, 3, result.Skipped)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, core.IDFromContent(sampleCSV), result.Digest)
	assert.Contains(t, progress.String(), "5/5")

	all, err := lineRepo.AllLines(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, []core.ID{1, 2, 6, 8, 9}, []core.ID{all[0].Id, all[1].Id, all[2].Id, all[3].Id, all[4].Id})

	checkpoint, err := checkpointRepo.LoadCheckpoint(ctx, "lines.csv")
	require.NoError(t, err)
	require.NotNil(t, checkpoint)
	assert.Equal(t, result.Digest, checkpoint.Digest)
	assert.Equal(t, 5, checkpoint.Count)

	t.Run("unchanged source is skipped", func(t *testing.T) {
		again, err := p.Import(ctx, "lines.csv", []byte(sampleCSV), false)
		require.NoError(t, err)
		assert.True(t, again.Unchanged)
		assert.Equal(t, 5, again.Imported)
		assert.Zero(t, again.Skipped)
	})

	t.Run("force re-imports", func(t *testing.T) {
		again, err := p.Import(ctx, "lines.csv", []byte(sampleCSV), true)
		require.NoError(t, err)
		assert.False(t, again.Unchanged)
		assert.Equal(t, 5, again.Imported)
	})

	t.Run("changed source is imported", func(t *testing.T) {
		changed := sampleCSV + "10,3,1,1,I am Beyonce always,Michael Scott\n"
		again, err := p.Import(ctx, "lines.csv", []byte(changed), false)
		require.NoError(t, err)
		assert.False(t, again.Unchanged)
		assert.Equal(t, 6, again.Imported)

		count, err := lineRepo.CountLines(ctx)
		require.NoError(t, err)
		assert.Equal(t, 6, count)
	})
}

func TestImport_RemovesLinesNoLongerLive(t *testing.T) {
	const header = "id,season,episode,scene,line_text,speaker,deleted\n"
	v1 := header +
		"1,1,1,1,That's what she said!,Michael Scott,FALSE\n" +
		"2,1,1,2,Bears. Beets. Battlestar Galactica.,Jim Halpert,FALSE\n" +
		"3,1,2,1,I DECLARE BANKRUPTCY!,Michael Scott,FALSE\n"
	v2 := header +
		"1,1,1,1,That's what she said!,Michael Scott,FALSE\n" +
		"2,1,1,2,Bears. Beets. Battlestar Galactica.,Jim Halpert,TRUE\n"

	stores := map[string]func(t *testing.T) (storage.LineRepository, storage.CheckpointRepository){
		"badger": setupRepositories,
		"sqlite": func(t *testing.T) (storage.LineRepository, storage.CheckpointRepository) {
			store, err := sqlite.Open(":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { store.Close() })
			return store, store
		},
	}

	for name, setup := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			lineRepo, checkpointRepo := setup(t)
			p := setupPipeline(t, lineRepo, checkpointRepo)

			first, err := p.Import(ctx, "lines.csv", []byte(v1), false)
			require.NoError(t, err)
			assert.Equal(t, 3, first.Imported)
			assert.Zero(t, first.Removed)

			second, err := p.Import(ctx, "lines.csv", []byte(v2), false)
			require.NoError(t, err)
			assert.Equal(t, 1, second.Imported)
			assert.Equal(t, 1, second.Deleted)
			assert.Equal(t, 2, second.Removed)

			count, err := lineRepo.CountLines(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, count)

			for _, id := range []core.ID{2, 3} {
				_, err := lineRepo.GetLine(ctx, id)
				assert.ErrorIs(t, err, storage.ErrNotFound, "line %d", id)
			}

			checkpoint, err := checkpointRepo.LoadCheckpoint(ctx, "lines.csv")
			require.NoError(t, err)
			require.NotNil(t, checkpoint)
			assert.Equal(t, 1, checkpoint.Count)
		})
	}
}

func TestImport_EmptySource(t *testing.T) {
	lineRepo, checkpointRepo := setupRepositories(t)
	p := setupPipeline(t, lineRepo, checkpointRepo)

	_, err := p.Import(context.Background(), "", []byte(sampleCSV), false)
	assert.ErrorIs(t, err, ErrEmptySource)
}

func TestImport_StoreFailure(t *testing.T) {
	ctx := context.Background()
	lineRepo, checkpointRepo := setupRepositories(t)
	p := setupPipeline(t, &failingLineRepository{LineRepository: lineRepo}, checkpointRepo, WithBatchSize(2))

	_, err := p.Import(ctx, "lines.csv", []byte(sampleCSV), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImportFailed)

	checkpoint, err := checkpointRepo.LoadCheckpoint(ctx, "lines.csv")
	require.NoError(t, err)
	assert.Nil(t, checkpoint, "failed import must not be checkpointed")
}

func TestImport_Canceled(t *testing.T) {
	lineRepo, checkpointRepo := setupRepositories(t)
	p := setupPipeline(t, lineRepo, checkpointRepo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Import(ctx, "lines.csv", []byte(sampleCSV), true)
	assert.ErrorIs(t, err, ErrImportFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportFile(t *testing.T) {
	ctx := context.Background()
	lineRepo, checkpointRepo := setupRepositories(t)
	p := setupPipeline(t, lineRepo, checkpointRepo)

	path := filepath.Join(t.TempDir(), "the-office-lines.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	result, err := p.ImportFile(ctx, path, false)
	require.NoError(t, err)
	assert.Equal(t, path, result.Source)
	assert.Equal(t, 5, result.Imported)

	_, err = p.ImportFile(ctx, filepath.Join(t.TempDir(), "missing.csv"), false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
