// internal/app/features/me/handler.go
package me

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/adminpanel/internal/app/features/errors"
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
)

// Handler serves the signed-in operator's identity.
type Handler struct{}

// NewHandler creates a new me handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Response is the settings view of the current identity.
type Response struct {
	IsAuthenticated bool      `json:"isAuthenticated"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// ServeMe returns the current identity and the role derived from it.
// RequireSignedIn runs first, so a missing identity only happens when the
// handler is mounted on its own.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.CurrentIdentity(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusOK, Response{})
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, Response{
		IsAuthenticated: true,
		Email:           id.Email,
		Role:            id.Role(),
		ExpiresAt:       id.ExpiresAt,
	})
}
