package domain

import (
	"testing"
	"time"
)

func TestFriendshipStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to FriendshipStatus
		want     bool
	}{
		{FriendshipPending, FriendshipAccepted, true},
		{FriendshipPending, FriendshipBlocked, true},
		{FriendshipAccepted, FriendshipBlocked, true},
		{FriendshipAccepted, FriendshipPending, false},
		{FriendshipBlocked, FriendshipPending, false},
		{FriendshipBlocked, FriendshipAccepted, false},
		{FriendshipPending, FriendshipPending, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestNewFriendship_RejectsSelf(t *testing.T) {
	if _, err := NewFriendship("u1", "u1", time.Now()); err != ErrSelfFriendship {
		t.Fatalf("expected ErrSelfFriendship, got %v", err)
	}
}

func TestNewFriendship_StartsPending(t *testing.T) {
	f, err := NewFriendship("u1", "u2", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Status != FriendshipPending {
		t.Fatalf("expected pending, got %s", f.Status)
	}
	if f.CreatedBy != "u1" {
		t.Fatalf("expected created_by u1, got %s", f.CreatedBy)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "ALICE@EXAMPLE.COM" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}
