package profile_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	profileHandler "github.com/MrJamesThe3rd/financeflow/internal/http/profile"
	"github.com/MrJamesThe3rd/financeflow/internal/profile"
)

var userID = uuid.MustParse("5b1f7c1e-3c1d-4d7e-9a55-1f0d2e3c4b5a")

func setup(t *testing.T) (http.Handler, *profile.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := profile.NewMockRepository(ctrl)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), &auth.Session{UserID: userID})))
		})
	})
	r.Route("/profile", profileHandler.NewHandler(profile.NewService(repo)).Routes)

	return r, repo
}

func TestHandler_ResetData(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		wantStatus int
	}{
		{name: "reset", wantStatus: http.StatusNoContent},
		{name: "missing profile", repoErr: profile.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "store failure", repoErr: errors.New("connection reset"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo := setup(t)
			repo.EXPECT().ResetData(gomock.Any(), userID).Return(tt.repoErr)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/profile/data", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
