package access_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/http/access"
	"github.com/MrJamesThe3rd/financeflow/internal/profile"
)

type activation struct {
	state profile.Activation
	err   error
}

func (a activation) Activation(context.Context, uuid.UUID) (profile.Activation, error) {
	return a.state, a.err
}

type subscription struct {
	active bool
	err    error
}

func (s subscription) Active(context.Context, uuid.UUID) (bool, error) {
	return s.active, s.err
}

type roles struct {
	admin bool
	err   error
}

func (r roles) IsAdmin(context.Context, uuid.UUID) (bool, error) {
	return r.admin, r.err
}

func withUser(r *http.Request) *http.Request {
	return r.WithContext(auth.WithSession(r.Context(), &auth.Session{UserID: uuid.New()}))
}

var teapot = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusTeapot)
})

func TestRequire(t *testing.T) {
	tests := []struct {
		name         string
		anonymous    bool
		activation   activation
		subscription subscription
		wantStatus   int
		wantState    string
	}{
		{
			name:       "no session",
			anonymous:  true,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "pending activation",
			activation: activation{state: profile.ActivationPending},
			wantStatus: http.StatusForbidden,
			wantState:  "activation_pending",
		},
		{
			name:       "deactivated",
			activation: activation{state: profile.ActivationDeactivated},
			wantStatus: http.StatusForbidden,
			wantState:  "denied",
		},
		{
			name:       "activation check failure waits",
			activation: activation{err: errors.New("offline")},
			wantStatus: http.StatusForbidden,
			wantState:  "activation_pending",
		},
		{
			name:         "no subscription",
			activation:   activation{state: profile.ActivationActive},
			subscription: subscription{active: false},
			wantStatus:   http.StatusPaymentRequired,
			wantState:    "payment_required",
		},
		{
			name:         "subscription check failure",
			activation:   activation{state: profile.ActivationActive},
			subscription: subscription{err: errors.New("offline")},
			wantStatus:   http.StatusPaymentRequired,
			wantState:    "payment_required",
		},
		{
			name:         "granted",
			activation:   activation{state: profile.ActivationActive},
			subscription: subscription{active: true},
			wantStatus:   http.StatusTeapot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := access.NewHandler(tt.activation, tt.subscription)

			req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
			if !tt.anonymous {
				req = withUser(req)
			}

			rec := httptest.NewRecorder()
			h.Require(teapot).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantState != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantState, body["state"])
			}
		})
	}
}

func TestHandler_State(t *testing.T) {
	h := access.NewHandler(activation{state: profile.ActivationActive}, subscription{active: true})

	r := chi.NewRouter()
	r.Route("/access", h.Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/access", nil)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":"granted"}`, rec.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		roles      roles
		wantStatus int
	}{
		{name: "admin", roles: roles{admin: true}, wantStatus: http.StatusTeapot},
		{name: "not admin", roles: roles{}, wantStatus: http.StatusForbidden},
		{name: "role lookup fails", roles: roles{err: errors.New("db down")}, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			access.RequireAdmin(tt.roles)(teapot).ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/admin/stats", nil)))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
