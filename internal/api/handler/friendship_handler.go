package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/expenspend/expenspend-api/internal/core/domain"
	"github.com/expenspend/expenspend-api/internal/core/ports"
)

type FriendshipHandler struct {
	friendships ports.FriendshipService
}

func NewFriendshipHandler(friendships ports.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendships: friendships}
}

type createFriendshipRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
}

type respondFriendshipRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted blocked"`
}

// Create sends a friend request from the authenticated user.
//
// @Summary      Send a friend request
// @Tags         friendships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createFriendshipRequest  true  "Recipient"
// @Success      201   {object}  domain.Friendship
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/friendships [post]
func (h *FriendshipHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createFriendshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	f, err := h.friendships.Create(c.Request().Context(), userID, req.RecipientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, f)
}

// Respond accepts or blocks a pending friend request.
//
// @Summary      Accept or block a friend request
// @Tags         friendships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Friendship id"
// @Param        body  body      respondFriendshipRequest  true  "Decision"
// @Success      200   {object}  domain.Friendship
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/friendships/{id} [patch]
func (h *FriendshipHandler) Respond(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req respondFriendshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	f, err := h.friendships.Respond(c.Request().Context(), c.Param("id"), domain.FriendshipStatus(req.Status), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, f)
}

// List returns the authenticated user's friendships, both sides of the pair.
//
// @Summary      List friendships
// @Tags         friendships
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Friendship
// @Router       /api/friendships [get]
func (h *FriendshipHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	list, err := h.friendships.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Friendship{}
	}
	return c.JSON(http.StatusOK, list)
}

// Delete soft-deletes a friendship.
//
// @Summary      Remove a friendship
// @Tags         friendships
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Friendship id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/friendships/{id} [delete]
func (h *FriendshipHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.friendships.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
