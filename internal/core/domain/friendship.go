package domain

import (
	"errors"
	"time"
)

// FriendshipStatus represents the lifecycle state of a friendship pair.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipBlocked  FriendshipStatus = "blocked"
)

// validFriendshipTransitions defines the allowed state machine transitions.
// There is no way out of blocked.
var validFriendshipTransitions = map[FriendshipStatus][]FriendshipStatus{
	FriendshipPending:  {FriendshipAccepted, FriendshipBlocked},
	FriendshipAccepted: {FriendshipBlocked},
}

var ErrSelfFriendship = errors.New("cannot create a friendship with yourself")
var ErrDuplicatePair = errors.New("friendship pair already exists")
var ErrFriendshipNotFound = errors.New("friendship not found")
var ErrInvalidTransition = errors.New("invalid friendship status transition")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s FriendshipStatus) CanTransitionTo(next FriendshipStatus) bool {
	for _, allowed := range validFriendshipTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether the status is one of the known enum values.
func (s FriendshipStatus) Valid() bool {
	switch s {
	case FriendshipPending, FriendshipAccepted, FriendshipBlocked:
		return true
	}
	return false
}

// Friendship is the directed initiator→recipient relation behind a friend
// request. Uniqueness is enforced on the ordered pair (initiator, recipient);
// a mirrored (recipient, initiator) row remains a distinct relation.
// Rows are soft-deleted, never physically removed.
type Friendship struct {
	ID          string           `json:"id"`
	InitiatorID string           `json:"initiator_id"`
	RecipientID string           `json:"recipient_id"`
	Status      FriendshipStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	CreatedBy   string           `json:"created_by,omitempty"`
	ModifiedBy  string           `json:"modified_by,omitempty"`
	IsDeleted   bool             `json:"-"`
}

// NewFriendship builds a pending friendship, rejecting self-reference at
// construction time. The storage layer enforces the same invariant again.
func NewFriendship(initiatorID, recipientID string, now time.Time) (*Friendship, error) {
	if initiatorID == recipientID {
		return nil, ErrSelfFriendship
	}
	return &Friendship{
		InitiatorID: initiatorID,
		RecipientID: recipientID,
		Status:      FriendshipPending,
		CreatedAt:   now,
		CreatedBy:   initiatorID,
	}, nil
}
