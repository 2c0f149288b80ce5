package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/IT-MikeS/secret-santa-thing/internal/models"
	"github.com/IT-MikeS/secret-santa-thing/internal/storage"
)

// CreateGroup inserts a new group and its creator member in one transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, creator *models.Member) error {
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, creator, is_generated, created_at) VALUES (?, ?, ?, 0, ?)",
		group.ID, group.Name, group.Creator, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO members (group_id, user_id, name, is_creator) VALUES (?, ?, ?, 1)",
		group.ID, creator.UserID, creator.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert creator member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID, including its full member list.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, creator, is_generated, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.Creator, &group.IsGenerated, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return group, nil
}

// GetMembers retrieves all members of a group in insertion order.
func (s *SQLiteStore) GetMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id, user_id, name, is_creator FROM members WHERE group_id = ? ORDER BY rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.Name, &m.IsCreator); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// IsGenerated reports whether the group's pairs have been generated.
func (s *SQLiteStore) IsGenerated(ctx context.Context, groupID string) (bool, error) {
	var generated bool
	err := s.db.QueryRowContext(ctx,
		"SELECT is_generated FROM groups WHERE id = ?",
		groupID,
	).Scan(&generated)
	if err == sql.ErrNoRows {
		return false, storage.ErrGroupNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to get generated flag: %w", err)
	}
	return generated, nil
}

// NameExists reports whether a display name is already taken in the group.
func (s *SQLiteStore) NameExists(ctx context.Context, groupID, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM members WHERE group_id = ? AND name = ?)",
		groupID, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check name: %w", err)
	}
	return exists, nil
}

// InsertMember adds a member to a group.
func (s *SQLiteStore) InsertMember(ctx context.Context, member *models.Member) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO members (group_id, user_id, name, is_creator) VALUES (?, ?, ?, ?)",
		member.GroupID, member.UserID, member.Name, member.IsCreator,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// UserGroups lists every group the user belongs to, newest first.
func (s *SQLiteStore) UserGroups(ctx context.Context, userID string) ([]models.UserGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.is_generated, m.is_creator
		FROM groups g
		JOIN members m ON g.id = m.group_id
		WHERE m.user_id = ?
		ORDER BY g.created_at DESC, g.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user groups: %w", err)
	}
	defer rows.Close()

	var groups []models.UserGroup
	for rows.Next() {
		var g models.UserGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.IsGenerated, &g.IsCreator); err != nil {
			return nil, fmt.Errorf("failed to scan user group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user groups: %w", err)
	}

	return groups, nil
}
