package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/episodeo/episodeo-server/internal/domain"
)

// loadListMembers loads the ordered series IDs for a list.
func loadListMembers(ctx context.Context, q interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}, userID, listID string) ([]int, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT series_id FROM custom_list_members
		WHERE user_id = ? AND list_id = ?
		ORDER BY sort_order`, userID, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// insertListMembers inserts list membership rows with sort_order by index.
func insertListMembers(ctx context.Context, tx *sql.Tx, userID string, list domain.CustomList) error {
	for i, seriesID := range list.SeriesIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO custom_list_members (user_id, list_id, series_id, sort_order)
			VALUES (?, ?, ?, ?)`,
			userID, list.ID, seriesID, i,
		)
		if err != nil {
			return fmt.Errorf("insert list member %d: %w", seriesID, err)
		}
	}
	return nil
}

// Lists returns every cached custom list owned by the user, members loaded.
func (s *Store) Lists(ctx context.Context, userID string) ([]domain.CustomList, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, owner_id, is_public FROM custom_lists
		WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	defer rows.Close()

	var lists []domain.CustomList
	for rows.Next() {
		var (
			l        domain.CustomList
			isPublic int
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.OwnerID, &isPublic); err != nil {
			return nil, err
		}
		l.IsPublic = isPublic != 0
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lists {
		lists[i].SeriesIDs, err = loadListMembers(ctx, s.db, userID, lists[i].ID)
		if err != nil {
			return nil, fmt.Errorf("load list members for %s: %w", lists[i].ID, err)
		}
	}

	return lists, nil
}

// PutList upserts a custom list mirror row and replaces its members.
func (s *Store) PutList(ctx context.Context, userID string, list domain.CustomList) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO custom_lists (user_id, id, name, owner_id, is_public)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, id) DO UPDATE SET
			name = excluded.name,
			owner_id = excluded.owner_id,
			is_public = excluded.is_public`,
		userID, list.ID, list.Name, list.OwnerID, boolToInt(list.IsPublic),
	)
	if err != nil {
		return fmt.Errorf("put list: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM custom_list_members WHERE user_id = ? AND list_id = ?`,
		userID, list.ID); err != nil {
		return fmt.Errorf("clear list members: %w", err)
	}
	if err := insertListMembers(ctx, tx, userID, list); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteList removes a custom list mirror row. Members cascade.
func (s *Store) DeleteList(ctx context.Context, userID, listID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM custom_lists WHERE user_id = ? AND id = ?`, userID, listID)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// ReplaceLists swaps the user's list partition in one transaction.
func (s *Store) ReplaceLists(ctx context.Context, userID string, lists []domain.CustomList) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM custom_lists WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear lists: %w", err)
	}

	for _, l := range lists {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO custom_lists (user_id, id, name, owner_id, is_public)
			VALUES (?, ?, ?, ?, ?)`,
			userID, l.ID, l.Name, l.OwnerID, boolToInt(l.IsPublic),
		)
		if err != nil {
			return fmt.Errorf("insert list %s: %w", l.ID, err)
		}
		if err := insertListMembers(ctx, tx, userID, l); err != nil {
			return err
		}
	}

	return tx.Commit()
}
