package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/episodeo/episodeo-server/internal/domain"
)

// Metadata returns the cached metadata snapshot for a series, or nil when
// none has been stored.
func (s *Store) Metadata(ctx context.Context, seriesID int) (*domain.SeriesMetadata, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM series_metadata WHERE series_id = ?`, seriesID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get metadata: %w", err)
	}

	var meta domain.SeriesMetadata
	if err := json.Unmarshal([]byte(doc), &meta); err != nil {
		return nil, fmt.Errorf("unmarshal metadata %d: %w", seriesID, err)
	}
	return &meta, nil
}

// PutMetadata overwrites the metadata snapshot for a series.
func (s *Store) PutMetadata(ctx context.Context, meta *domain.SeriesMetadata) error {
	if meta == nil {
		return errors.New("nil metadata")
	}

	doc, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO series_metadata (series_id, doc)
		VALUES (?, ?)
		ON CONFLICT (series_id) DO UPDATE SET doc = excluded.doc`,
		meta.SeriesID, string(doc),
	)
	if err != nil {
		return fmt.Errorf("put metadata: %w", err)
	}
	return nil
}

// ClearUser removes every row in the user's partitions. Metadata snapshots
// are global and untouched.
func (s *Store) ClearUser(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM series_statuses WHERE user_id = ?`,
		`DELETE FROM custom_lists WHERE user_id = ?`,
		`DELETE FROM followed_lists WHERE user_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, userID); err != nil {
			return fmt.Errorf("clear user: %w", err)
		}
	}

	return tx.Commit()
}
