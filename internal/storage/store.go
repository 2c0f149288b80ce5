// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/IT-MikeS/secret-santa-thing/internal/models"
)

// ErrGroupNotFound is returned when a group ID does not exist.
var ErrGroupNotFound = errors.New("group not found")

// Store defines the interface for group, member and assignment storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group together with its creator member
	// as one transaction. Returns an error if the group ID is taken.
	CreateGroup(ctx context.Context, group *models.Group, creator *models.Member) error

	// GetGroup retrieves a group by ID with its full member list.
	// Returns ErrGroupNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetMembers retrieves all members of a group, in insertion order.
	GetMembers(ctx context.Context, groupID string) ([]models.Member, error)

	// IsGenerated reports whether pairs have been generated for the group.
	// Returns ErrGroupNotFound if the group does not exist.
	IsGenerated(ctx context.Context, groupID string) (bool, error)

	// NameExists reports whether a member with the given display name
	// already exists in the group. Exact match, case-sensitive.
	NameExists(ctx context.Context, groupID, name string) (bool, error)

	// InsertMember adds a member to a group.
	InsertMember(ctx context.Context, member *models.Member) error

	// InsertAssignments writes the full assignment set for a group and
	// flips the group's generated flag, all as one atomic transaction.
	// A reader never observes a partially generated group.
	InsertAssignments(ctx context.Context, groupID string, assignments []models.Assignment) error

	// GetAssignmentFor retrieves the assignment where the given member
	// is the giver, with ReceiverName populated. Returns (nil, nil) if
	// no assignment exists.
	GetAssignmentFor(ctx context.Context, groupID, giverID string) (*models.Assignment, error)

	// UserGroups lists every group the user is a member of, newest first.
	UserGroups(ctx context.Context, userID string) ([]models.UserGroup, error)

	// Close releases any resources held by the store.
	Close() error
}
