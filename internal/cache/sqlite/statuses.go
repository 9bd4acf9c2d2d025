package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/episodeo/episodeo-server/internal/domain"
)

// scanStatus scans a series_statuses row into a domain.SeriesStatus.
func scanStatus(scanner interface{ Scan(dest ...any) error }) (domain.SeriesStatus, error) {
	var (
		st     domain.SeriesStatus
		status string
		rating sql.NullInt64
	)

	if err := scanner.Scan(&st.SeriesID, &status, &rating); err != nil {
		return domain.SeriesStatus{}, err
	}

	st.Status = domain.WatchStatus(status)
	st.Rating = intPtr(rating)
	return st, nil
}

// Statuses returns every cached watch status for the user.
func (s *Store) Statuses(ctx context.Context, userID string) ([]domain.SeriesStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT series_id, status, rating FROM series_statuses WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query statuses: %w", err)
	}
	defer rows.Close()

	var statuses []domain.SeriesStatus
	for rows.Next() {
		st, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return statuses, nil
}

// PutStatus upserts a single watch status row.
func (s *Store) PutStatus(ctx context.Context, userID string, status domain.SeriesStatus) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO series_statuses (user_id, series_id, status, rating)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, series_id) DO UPDATE SET
			status = excluded.status,
			rating = excluded.rating`,
		userID, status.SeriesID, string(status.Status), nullInt(status.Rating),
	)
	if err != nil {
		return fmt.Errorf("put status: %w", err)
	}
	return nil
}

// DeleteStatus removes a single watch status row. Absent rows are a no-op.
func (s *Store) DeleteStatus(ctx context.Context, userID string, seriesID int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM series_statuses WHERE user_id = ? AND series_id = ?`, userID, seriesID)
	if err != nil {
		return fmt.Errorf("delete status: %w", err)
	}
	return nil
}

// ReplaceStatuses swaps the user's status partition for the given rows in
// one transaction.
func (s *Store) ReplaceStatuses(ctx context.Context, userID string, statuses []domain.SeriesStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM series_statuses WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear statuses: %w", err)
	}

	for _, st := range statuses {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO series_statuses (user_id, series_id, status, rating)
			VALUES (?, ?, ?, ?)`,
			userID, st.SeriesID, string(st.Status), nullInt(st.Rating),
		)
		if err != nil {
			return fmt.Errorf("insert status %d: %w", st.SeriesID, err)
		}
	}

	return tx.Commit()
}
