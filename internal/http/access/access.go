// Package access applies the gate to HTTP requests. The session comes from the bearer token;
// activation and subscription are resolved on every request.
package access

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/gate"
	"github.com/MrJamesThe3rd/financeflow/internal/http/respond"
)

type stateResponse struct {
	State gate.State `json:"state"`
}

type Handler struct {
	activation   gate.ActivationChecker
	subscription gate.SubscriptionChecker
}

func NewHandler(activation gate.ActivationChecker, subscription gate.SubscriptionChecker) *Handler {
	return &Handler{activation: activation, subscription: subscription}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.state)
}

// state reports where the caller stands. Clients waiting on activation or payment poll it.
func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	s := gate.Resolve(r.Context(), auth.UserID(r.Context()), h.activation, h.subscription)
	respond.JSON(w, http.StatusOK, stateResponse{State: s})
}

// Require lets only granted users through. Others get 401 without a session, 402 while
// payment is required and 403 otherwise, with the state in the body.
func (h *Handler) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := gate.Resolve(r.Context(), auth.UserID(r.Context()), h.activation, h.subscription)

		switch s {
		case gate.Granted:
			next.ServeHTTP(w, r)
		case gate.Unauthenticated:
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
		case gate.PaymentRequired:
			respond.JSON(w, http.StatusPaymentRequired, stateResponse{State: s})
		default:
			respond.JSON(w, http.StatusForbidden, stateResponse{State: s})
		}
	})
}

type RoleChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RequireAdmin lets only callers holding the admin role through.
func RequireAdmin(roles RoleChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := roles.IsAdmin(r.Context(), auth.UserID(r.Context()))
			if err != nil {
				respond.Error(w, r, err)
				return
			}

			if !ok {
				http.Error(w, "admin role required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
