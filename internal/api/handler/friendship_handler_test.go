package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/expenspend/expenspend-api/internal/core/domain"
)

type stubFriendshipService struct {
	created    *domain.Friendship
	createErr  error
	responded  *domain.Friendship
	respondErr error
	list       []*domain.Friendship
	deleteErr  error

	lastInitiator string
	lastRecipient string
	lastStatus    domain.FriendshipStatus
}

func (s *stubFriendshipService) Create(_ context.Context, initiatorID, recipientID string) (*domain.Friendship, error) {
	s.lastInitiator = initiatorID
	s.lastRecipient = recipientID
	return s.created, s.createErr
}

func (s *stubFriendshipService) Respond(_ context.Context, _ string, status domain.FriendshipStatus, _ string) (*domain.Friendship, error) {
	s.lastStatus = status
	return s.responded, s.respondErr
}

func (s *stubFriendshipService) ListForUser(context.Context, string) ([]*domain.Friendship, error) {
	return s.list, nil
}

func (s *stubFriendshipService) Delete(context.Context, string, string) error {
	return s.deleteErr
}

func TestFriendshipCreateHandler_Created(t *testing.T) {
	svc := &stubFriendshipService{
		created: &domain.Friendship{ID: "f-1", InitiatorID: "u1", RecipientID: "u2", Status: domain.FriendshipPending},
	}
	h := NewFriendshipHandler(svc)

	c, rec := newTestContext(http.MethodPost, "/api/friendships", `{"recipient_id":"u2"}`)
	c.Set("user_id", "u1")

	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.lastInitiator != "u1" || svc.lastRecipient != "u2" {
		t.Fatalf("unexpected pair: %s → %s", svc.lastInitiator, svc.lastRecipient)
	}
}

func TestFriendshipCreateHandler_RequiresAuthClaims(t *testing.T) {
	h := NewFriendshipHandler(&stubFriendshipService{})

	c, _ := newTestContext(http.MethodPost, "/api/friendships", `{"recipient_id":"u2"}`)
	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %v", err)
	}
}

func TestFriendshipCreateHandler_SelfErrorPassesThrough(t *testing.T) {
	h := NewFriendshipHandler(&stubFriendshipService{createErr: domain.ErrSelfFriendship})

	c, _ := newTestContext(http.MethodPost, "/api/friendships", `{"recipient_id":"u1"}`)
	c.Set("user_id", "u1")
	if err := h.Create(c); !errors.Is(err, domain.ErrSelfFriendship) {
		t.Fatalf("expected ErrSelfFriendship, got %v", err)
	}
}

func TestFriendshipRespondHandler_RejectsUnknownStatus(t *testing.T) {
	h := NewFriendshipHandler(&stubFriendshipService{})

	c, _ := newTestContext(http.MethodPatch, "/api/friendships/f-1", `{"status":"rejected"}`)
	c.Set("user_id", "u2")
	c.SetParamNames("id")
	c.SetParamValues("f-1")

	err := h.Respond(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %v", err)
	}
}

func TestFriendshipRespondHandler_Accepts(t *testing.T) {
	svc := &stubFriendshipService{
		responded: &domain.Friendship{ID: "f-1", Status: domain.FriendshipAccepted},
	}
	h := NewFriendshipHandler(svc)

	c, rec := newTestContext(http.MethodPatch, "/api/friendships/f-1", `{"status":"accepted"}`)
	c.Set("user_id", "u2")
	c.SetParamNames("id")
	c.SetParamValues("f-1")

	if err := h.Respond(c); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastStatus != domain.FriendshipAccepted {
		t.Fatalf("expected accepted, got %s", svc.lastStatus)
	}
}

func TestFriendshipListHandler_EmptyIsJSONArray(t *testing.T) {
	h := NewFriendshipHandler(&stubFriendshipService{})

	c, rec := newTestContext(http.MethodGet, "/api/friendships", "")
	c.Set("user_id", "u1")

	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	// An empty ledger must serialize as [], not null.
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestFriendshipDeleteHandler_NoContent(t *testing.T) {
	h := NewFriendshipHandler(&stubFriendshipService{})

	c, rec := newTestContext(http.MethodDelete, "/api/friendships/f-1", "")
	c.Set("user_id", "u1")
	c.SetParamNames("id")
	c.SetParamValues("f-1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestFriendshipDeleteHandler_NotFoundPassesThrough(t *testing.T) {
	h := NewFriendshipHandler(&stubFriendshipService{deleteErr: domain.ErrFriendshipNotFound})

	c, _ := newTestContext(http.MethodDelete, "/api/friendships/f-9", "")
	c.Set("user_id", "u1")
	c.SetParamNames("id")
	c.SetParamValues("f-9")

	if err := h.Delete(c); !errors.Is(err, domain.ErrFriendshipNotFound) {
		t.Fatalf("expected ErrFriendshipNotFound, got %v", err)
	}
}
