package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/IT-MikeS/secret-santa-thing/internal/metrics"
	"github.com/IT-MikeS/secret-santa-thing/internal/models"
)

// GeneratePairs computes the gift assignment cycle for a group, commits
// it, and broadcasts the result once.
//
// The member list is shuffled uniformly and each member at position i
// gives to the member at position (i+1) mod n, which yields a single
// n-cycle by construction: every member gives and receives exactly
// once, and nobody draws themselves.
//
// Generation is one-shot. A second call on a generated group is
// rejected with ErrAlreadyGenerated, and groups with fewer than two
// members are rejected with ErrTooFewMembers rather than producing a
// self-assignment.
func (s *Service) GeneratePairs(ctx context.Context, groupID string) error {
	if groupID == "" {
		return fmt.Errorf("%w: group ID required", ErrInvalidInput)
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.IsGenerated {
		return ErrAlreadyGenerated
	}

	members, err := s.store.GetMembers(ctx, groupID)
	if err != nil {
		return err
	}
	if len(members) < 2 {
		return ErrTooFewMembers
	}

	shuffled := slices.Clone(members)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	assignments := make([]models.Assignment, 0, len(shuffled))
	pairs := make(map[string]string, len(shuffled))
	byUserID := make(map[string]string, len(shuffled))
	for i, giver := range shuffled {
		receiver := shuffled[(i+1)%len(shuffled)]
		assignments = append(assignments, models.Assignment{
			GroupID:    groupID,
			GiverID:    giver.UserID,
			ReceiverID: receiver.UserID,
		})
		pairs[giver.UserID] = receiver.UserID
		byUserID[giver.UserID] = receiver.Name
	}

	// All edges and the generated flag commit atomically; nothing is
	// broadcast unless the transaction went through.
	if err := s.store.InsertAssignments(ctx, groupID, assignments); err != nil {
		return err
	}

	metrics.PairsGenerated.Inc()
	slog.Info("Pairs generated", "group_id", groupID, "members", len(members))
	s.notifier.PairsGenerated(groupID, byUserID, pairs)
	return nil
}
