package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/IT-MikeS/secret-santa-thing/internal/models"
	"github.com/IT-MikeS/secret-santa-thing/internal/storage"
)

// InsertAssignments writes the full assignment set for a group and flips
// the generated flag as a single transaction. Either every edge and the
// flag are committed, or nothing is.
func (s *SQLiteStore) InsertAssignments(ctx context.Context, groupID string, assignments []models.Assignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range assignments {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO assignments (group_id, giver_id, receiver_id) VALUES (?, ?, ?)",
			groupID, a.GiverID, a.ReceiverID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE groups SET is_generated = 1 WHERE id = ?",
		groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to set generated flag: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrGroupNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAssignmentFor retrieves the assignment where the given member is the
// giver, with the receiver's display name joined in. Returns (nil, nil)
// when no assignment exists.
func (s *SQLiteStore) GetAssignmentFor(ctx context.Context, groupID, giverID string) (*models.Assignment, error) {
	a := &models.Assignment{}
	err := s.db.QueryRowContext(ctx, `
		SELECT a.group_id, a.giver_id, a.receiver_id, m.name
		FROM assignments a
		JOIN members m ON m.group_id = a.group_id AND m.user_id = a.receiver_id
		WHERE a.group_id = ? AND a.giver_id = ?`,
		groupID, giverID,
	).Scan(&a.GroupID, &a.GiverID, &a.ReceiverID, &a.ReceiverName)
	if err == sql.ErrNoRows {
		return nil, nil // no assignment yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}
