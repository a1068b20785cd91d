package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/expenspend/expenspend-api/internal/core/domain"
	"github.com/expenspend/expenspend-api/internal/core/ports"
	"github.com/expenspend/expenspend-api/internal/metrics"
)

// FriendshipService is the friendship ledger. Uniqueness is defined over the
// ordered (initiator, recipient) pair: a mirrored (recipient, initiator) row
// is a distinct relation and is deliberately not collapsed here.
type FriendshipService struct {
	repo ports.FriendshipRepository
	log  zerolog.Logger
}

func NewFriendshipService(repo ports.FriendshipRepository, log zerolog.Logger) *FriendshipService {
	return &FriendshipService{repo: repo, log: log}
}

// Create opens a pending friend request. The existence pre-check is an
// optimization for the common case; the repository's unique index is the
// authoritative guard, so two racing requests for the same pair cannot both
// succeed.
func (s *FriendshipService) Create(ctx context.Context, initiatorID, recipientID string) (*domain.Friendship, error) {
	f, err := domain.NewFriendship(initiatorID, recipientID, time.Now().UTC())
	if err != nil {
		metrics.FriendshipRequestsTotal.WithLabelValues("self").Inc()
		return nil, err
	}

	if existing, err := s.repo.FindByPair(ctx, initiatorID, recipientID); err == nil && existing != nil {
		metrics.FriendshipRequestsTotal.WithLabelValues("duplicate").Inc()
		return nil, domain.ErrDuplicatePair
	} else if err != nil && !errors.Is(err, domain.ErrFriendshipNotFound) {
		return nil, fmt.Errorf("friendship pre-check: %w", err)
	}

	created, err := s.repo.Insert(ctx, f)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicatePair) {
			metrics.FriendshipRequestsTotal.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	metrics.FriendshipRequestsTotal.WithLabelValues("created").Inc()
	s.log.Info().Str("friendship_id", created.ID).Str("initiator_id", initiatorID).Str("recipient_id", recipientID).Msg("friend request created")
	return created, nil
}

// Respond applies the recipient's decision. Transitions follow the status
// state machine: pending→accepted, pending→blocked, accepted→blocked; blocked
// is terminal.
func (s *FriendshipService) Respond(ctx context.Context, friendshipID string, status domain.FriendshipStatus, byUserID string) (*domain.Friendship, error) {
	if !status.Valid() || status == domain.FriendshipPending {
		return nil, fmt.Errorf("%w: cannot move to %s", domain.ErrInvalidTransition, status)
	}

	f, err := s.repo.FindByID(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	if f.IsDeleted {
		return nil, domain.ErrFriendshipNotFound
	}

	if !f.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, f.Status, status)
	}

	// The repository pins the status read above in its update filter, so a
	// concurrent decision that landed first makes this one fail rather than
	// be overwritten.
	updated, err := s.repo.UpdateStatus(ctx, friendshipID, f.Status, status, byUserID)
	if err != nil {
		return nil, err
	}

	metrics.FriendshipResponsesTotal.WithLabelValues(string(status)).Inc()
	return updated, nil
}

// ListForUser returns the user's non-deleted friendships, whichever side of
// the pair they sit on.
func (s *FriendshipService) ListForUser(ctx context.Context, userID string) ([]*domain.Friendship, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete soft-deletes a friendship; rows are never physically removed.
func (s *FriendshipService) Delete(ctx context.Context, friendshipID, byUserID string) error {
	f, err := s.repo.FindByID(ctx, friendshipID)
	if err != nil {
		return err
	}
	if f.IsDeleted {
		return domain.ErrFriendshipNotFound
	}
	return s.repo.SoftDelete(ctx, friendshipID, byUserID)
}
