package goal

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/goal"
	"github.com/MrJamesThe3rd/financeflow/internal/http/respond"
)

type Handler struct {
	svc *goal.Service
}

func NewHandler(svc *goal.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/{id}/funds", h.addFunds)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type goalResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *string         `json:"deadline"`
	Icon          string          `json:"icon"`
	Color         string          `json:"color"`
	CreatedAt     time.Time       `json:"createdAt"`
	CompletedAt   *time.Time      `json:"completedAt"`
}

func toResponse(g *goal.Goal) goalResponse {
	return goalResponse{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Deadline:      respond.FormatDate(g.Deadline),
		Icon:          g.Icon,
		Color:         g.Color,
		CreatedAt:     g.CreatedAt,
		CompletedAt:   g.CompletedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	goals, err := h.svc.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]goalResponse, len(goals))
	for i, g := range goals {
		resp[i] = toResponse(g)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createRequest struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     string          `json:"deadline"`
	Icon         string          `json:"icon"`
	Color        string          `json:"color"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	deadline, err := respond.Date(req.Deadline)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	g, err := h.svc.Create(r.Context(), goal.CreateParams{
		UserID:       auth.UserID(r.Context()),
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     deadline,
		Icon:         req.Icon,
		Color:        req.Color,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(g))
}

type fundsRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) addFunds(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	var req fundsRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	g, err := h.svc.AddFunds(r.Context(), auth.UserID(r.Context()), id, req.Amount)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(g))
}

type updateRequest struct {
	Name          *string          `json:"name,omitempty"`
	TargetAmount  *decimal.Decimal `json:"targetAmount,omitempty"`
	CurrentAmount *decimal.Decimal `json:"currentAmount,omitempty"`
	Deadline      *string          `json:"deadline,omitempty"`
	Icon          *string          `json:"icon,omitempty"`
	Color         *string          `json:"color,omitempty"`
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

	params := goal.UpdateParams{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Icon:          req.Icon,
		Color:         req.Color,
	}

	if req.Deadline != nil {
		deadline, err := respond.Date(*req.Deadline)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		params.Deadline = deadline
	}

	g, err := h.svc.Update(r.Context(), auth.UserID(r.Context()), id, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(g))
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
