package profile

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/http/respond"
	"github.com/MrJamesThe3rd/financeflow/internal/profile"
)

type Handler struct {
	svc *profile.Service
}

func NewHandler(svc *profile.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Patch("/", h.update)
	r.Delete("/data", h.resetData)
}

type profileResponse struct {
	ID             uuid.UUID       `json:"id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Activation     string          `json:"activation"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func toResponse(p *profile.Profile) profileResponse {
	return profileResponse{
		ID:             p.ID,
		Email:          p.Email,
		Name:           p.Name,
		Currency:       p.Currency,
		InitialBalance: p.InitialBalance,
		Activation:     p.Activation().String(),
		CreatedAt:      p.CreatedAt,
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

type updateRequest struct {
	Name           *string          `json:"name,omitempty"`
	Currency       *string          `json:"currency,omitempty"`
	InitialBalance *decimal.Decimal `json:"initialBalance,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.Update(r.Context(), auth.UserID(r.Context()), profile.UpdateParams{
		Name:           req.Name,
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) resetData(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetData(r.Context(), auth.UserID(r.Context())); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
