// Package service implements the group operations and the pairing
// engine on top of the storage layer. Broadcasts go through a Notifier
// after the corresponding persistence mutation commits; delivery is
// best-effort and never fails the operation that triggered it.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/IT-MikeS/secret-santa-thing/internal/metrics"
	"github.com/IT-MikeS/secret-santa-thing/internal/models"
	"github.com/IT-MikeS/secret-santa-thing/internal/storage"
)

// groupCodeChars is the alphabet for short group join codes.
const groupCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const groupCodeLen = 5

// Notifier receives post-commit events to fan out to live connections.
// The session coordinator implements it; tests may substitute a fake.
type Notifier interface {
	GroupChanged(ctx context.Context, groupID string)
	PairsGenerated(groupID string, byUserID, pairs map[string]string)
}

// Service implements the Secret Santa group operations.
type Service struct {
	store    storage.Store
	notifier Notifier
}

// New creates a Service with the given storage backend and notifier.
func New(store storage.Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// CreateGroup creates a group with the given display name and creator.
// If userID is empty a fresh UUID is assigned. Returns the new group's
// join code and the creator's user ID.
func (s *Service) CreateGroup(ctx context.Context, name, creator, userID string) (string, string, error) {
	if name == "" || creator == "" {
		return "", "", fmt.Errorf("%w: group name and creator required", ErrInvalidInput)
	}
	if userID == "" {
		userID = uuid.NewString()
	}

	group := &models.Group{
		ID:      newGroupCode(),
		Name:    name,
		Creator: creator,
	}
	member := &models.Member{
		GroupID:   group.ID,
		UserID:    userID,
		Name:      creator,
		IsCreator: true,
	}
	if err := s.store.CreateGroup(ctx, group, member); err != nil {
		return "", "", fmt.Errorf("failed to create group: %w", err)
	}

	metrics.GroupsCreated.Inc()
	slog.Info("Group created", "group_id", group.ID, "name", group.Name)
	return group.ID, userID, nil
}

// GetGroup retrieves a group with its full member list.
func (s *Service) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, fmt.Errorf("%w: group ID required", ErrInvalidInput)
	}
	return s.store.GetGroup(ctx, groupID)
}

// UserGroups lists the groups the user belongs to, newest first.
func (s *Service) UserGroups(ctx context.Context, userID string) ([]models.UserGroup, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID required", ErrInvalidInput)
	}
	return s.store.UserGroups(ctx, userID)
}

// JoinGroup adds a member to a group. Validation happens before any
// mutation: joining a generated group or reusing a display name fails
// without side effects. On success every live connection in the group
// receives a fresh snapshot.
func (s *Service) JoinGroup(ctx context.Context, groupID, userID, name string) error {
	if groupID == "" || userID == "" || name == "" {
		return fmt.Errorf("%w: group ID, user ID and name required", ErrInvalidInput)
	}

	generated, err := s.store.IsGenerated(ctx, groupID)
	if err != nil {
		return err
	}
	if generated {
		return ErrAlreadyGenerated
	}

	taken, err := s.store.NameExists(ctx, groupID, name)
	if err != nil {
		return err
	}
	if taken {
		return ErrNameTaken
	}

	member := &models.Member{
		GroupID: groupID,
		UserID:  userID,
		Name:    name,
	}
	if err := s.store.InsertMember(ctx, member); err != nil {
		return err
	}

	slog.Info("Member joined", "group_id", groupID, "user_id", userID, "name", name)
	s.notifier.GroupChanged(ctx, groupID)
	return nil
}

// newGroupCode returns a short random join code. The keyspace (36^5) is
// large enough that collisions surface as a storage error on the rare
// unlucky insert.
func newGroupCode() string {
	code := make([]byte, groupCodeLen)
	for i := range code {
		code[i] = groupCodeChars[rand.IntN(len(groupCodeChars))]
	}
	return string(code)
}
