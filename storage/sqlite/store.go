package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/officelines/core"
	"github.com/poiesic/officelines/storage"
)

// Store implements storage.LineRepository and storage.CheckpointRepository.
type Store struct {
	db *sql.DB
}

var (
	_ storage.LineRepository       = (*Store)(nil)
	_ storage.CheckpointRepository = (*Store)(nil)
)

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddLines upserts lines inside a single transaction.
func (s *Store) AddLines(ctx context.Context, lines ...*core.Line) ([]*core.Line, error) {
	for _, line := range lines {
		if err := core.ValidateLine(line); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO lines (id, season, episode, scene, line_text, speaker)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  season = excluded.season,
		  episode = excluded.episode,
		  scene = excluded.scene,
		  line_text = excluded.line_text,
		  speaker = excluded.speaker`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for _, line := range lines {
		if _, err := stmt.ExecContext(ctx, int64(line.Id), line.Season, line.Episode, line.Scene, line.Text, line.Speaker); err != nil {
			return nil, fmt.Errorf("insert line %d: %w", line.Id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return lines, nil
}

// DeleteLines removes lines by their IDs.
func (s *Store) DeleteLines(ctx context.Context, ids ...core.ID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, id := range ids {
		res, err := tx.ExecContext(ctx, `DELETE FROM lines WHERE id = ?`, int64(id))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return storage.ErrNotFound
		}
	}
	return tx.Commit()
}

// GetLine retrieves a single line by ID.
func (s *Store) GetLine(ctx context.Context, id core.ID) (*core.Line, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, season, episode, scene, line_text, speaker FROM lines WHERE id = ?`, int64(id))
	line, err := scanLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return line, err
}

// GetLines retrieves the lines that exist among ids, in the order given.
func (s *Store) GetLines(ctx context.Context, ids ...core.ID) ([]*core.Line, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = int64(id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, season, episode, scene, line_text, speaker FROM lines WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[core.ID]*core.Line, len(ids))
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		byID[line.Id] = line
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var result []*core.Line
	for _, id := range ids {
		if line, ok := byID[id]; ok {
			result = append(result, line)
		}
	}
	return result, nil
}

// AllLines returns every stored line ordered by id.
func (s *Store) AllLines(ctx context.Context) ([]*core.Line, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, season, episode, scene, line_text, speaker FROM lines ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*core.Line
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, line)
	}
	return results, rows.Err()
}

// CountLines returns the number of stored lines.
func (s *Store) CountLines(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lines`).Scan(&count)
	return count, err
}

// SaveCheckpoint upserts the checkpoint for its source.
func (s *Store) SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error {
	if err := core.ValidateCheckpoint(checkpoint); err != nil {
		return err
	}
	checkpoint.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `INSERT INTO checkpoints (source, digest, line_count, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET
		  digest = excluded.digest,
		  line_count = excluded.line_count,
		  updated_at = excluded.updated_at`,
		checkpoint.Source, int64(checkpoint.Digest), checkpoint.Count, checkpoint.UpdatedAt.UnixMicro())
	return err
}

// LoadCheckpoint returns the checkpoint for source, or nil if none exists.
func (s *Store) LoadCheckpoint(ctx context.Context, source string) (*core.Checkpoint, error) {
	var (
		digest    int64
		updatedAt int64
	)
	checkpoint := &core.Checkpoint{Source: source}
	err := s.db.QueryRowContext(ctx,
		`SELECT digest, line_count, updated_at FROM checkpoints WHERE source = ?`, source).
		Scan(&digest, &checkpoint.Count, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// Digests are full 64-bit hashes; SQLite stores them as signed integers.
	checkpoint.Digest = core.ID(uint64(digest))
	checkpoint.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	return checkpoint, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLine(row rowScanner) (*core.Line, error) {
	var (
		id   int64
		line core.Line
	)
	if err := row.Scan(&id, &line.Season, &line.Episode, &line.Scene, &line.Text, &line.Speaker); err != nil {
		return nil, err
	}
	line.Id = core.ID(id)
	return &line, nil
}
