package ports

import (
	"context"

	"github.com/expenspend/expenspend-api/internal/core/domain"
)

// FriendshipRepository persists friendship pairs. Insert must rely on a
// storage-level unique index over the ordered (initiator_id, recipient_id)
// pair restricted to non-deleted rows, and map a constraint violation to
// domain.ErrDuplicatePair. UpdateStatus must match the row only while its
// current status is still from, so concurrent decisions are decided by
// storage: a lost race surfaces as domain.ErrInvalidTransition instead of
// overwriting the winner.
type FriendshipRepository interface {
	Insert(ctx context.Context, f *domain.Friendship) (*domain.Friendship, error)
	FindByID(ctx context.Context, id string) (*domain.Friendship, error)
	FindByPair(ctx context.Context, initiatorID, recipientID string) (*domain.Friendship, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.FriendshipStatus, modifiedBy string) (*domain.Friendship, error)
	SoftDelete(ctx context.Context, id, modifiedBy string) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Friendship, error)
}

// FriendshipService is the friendship ledger: pair uniqueness, self-reference
// rejection and the pending→accepted/blocked state machine.
type FriendshipService interface {
	Create(ctx context.Context, initiatorID, recipientID string) (*domain.Friendship, error)
	Respond(ctx context.Context, friendshipID string, status domain.FriendshipStatus, byUserID string) (*domain.Friendship, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Friendship, error)
	Delete(ctx context.Context, friendshipID, byUserID string) error
}
