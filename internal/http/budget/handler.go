package budget

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	"github.com/MrJamesThe3rd/financeflow/internal/http/respond"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
)

type Handler struct {
	svc *budget.Service
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type budgetResponse struct {
	ID         uuid.UUID       `json:"id"`
	CategoryID uuid.UUID       `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Month      period.Month    `json:"month"`
}

func toResponse(b *budget.Budget) budgetResponse {
	return budgetResponse{ID: b.ID, CategoryID: b.CategoryID, Amount: b.Amount, Month: b.Month}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var month *period.Month

	if s := r.URL.Query().Get("month"); s != "" {
		m := period.Month(s)
		if !m.Valid() {
			http.Error(w, "invalid month", http.StatusBadRequest)
			return
		}

		month = &m
	}

	budgets, err := h.svc.List(r.Context(), auth.UserID(r.Context()), month)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]budgetResponse, len(budgets))
	for i, b := range budgets {
		resp[i] = toResponse(b)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createRequest struct {
	CategoryID uuid.UUID       `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Month      string          `json:"month"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	b, err := h.svc.Create(r.Context(), budget.CreateParams{
		UserID:     auth.UserID(r.Context()),
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Month:      req.Month,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(b))
}

type updateRequest struct {
	CategoryID *uuid.UUID       `json:"categoryId,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Month      *string          `json:"month,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	b, err := h.svc.Update(r.Context(), auth.UserID(r.Context()), id, budget.UpdateParams{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Month:      req.Month,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), auth.UserID(r.Context()), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
