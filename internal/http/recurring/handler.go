package recurring

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/http/respond"
	"github.com/MrJamesThe3rd/financeflow/internal/recurring"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

type Handler struct {
	svc *recurring.Service
}

func NewHandler(svc *recurring.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/{id}/toggle", h.toggle)
	r.Delete("/{id}", h.delete)
}

type itemResponse struct {
	ID            uuid.UUID                 `json:"id"`
	Name          string                    `json:"name"`
	Type          transaction.Type          `json:"type"`
	CategoryID    *uuid.UUID                `json:"categoryId"`
	Amount        decimal.Decimal           `json:"amount"`
	PaymentMethod transaction.PaymentMethod `json:"paymentMethod"`
	Interval      recurring.Interval        `json:"interval"`
	NextDate      string                    `json:"nextDate"`
	Note          string                    `json:"note"`
	IsActive      bool                      `json:"isActive"`
	CreatedAt     time.Time                 `json:"createdAt"`
}

func toResponse(i *recurring.Item) itemResponse {
	resp := itemResponse{
		ID:            i.ID,
		Name:          i.Name,
		Type:          i.Type,
		Amount:        i.Amount,
		PaymentMethod: i.PaymentMethod,
		Interval:      i.Interval,
		NextDate:      i.NextDate.Format(time.DateOnly),
		Note:          i.Note,
		IsActive:      i.IsActive,
		CreatedAt:     i.CreatedAt,
	}

	if i.CategoryID != uuid.Nil {
		resp.CategoryID = &i.CategoryID
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]itemResponse, len(items))
	for i, item := range items {
		resp[i] = toResponse(item)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createRequest struct {
	Name          string                    `json:"name"`
	Type          transaction.Type          `json:"type"`
	CategoryID    *uuid.UUID                `json:"categoryId"`
	Amount        decimal.Decimal           `json:"amount"`
	PaymentMethod transaction.PaymentMethod `json:"paymentMethod"`
	Interval      recurring.Interval        `json:"interval"`
	NextDate      string                    `json:"nextDate"`
	Note          string                    `json:"note"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	next, err := respond.Date(req.NextDate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	params := recurring.CreateParams{
		UserID:        auth.UserID(r.Context()),
		Name:          req.Name,
		Type:          req.Type,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Interval:      req.Interval,
		Note:          req.Note,
	}

	if next != nil {
		params.NextDate = *next
	}

	if req.CategoryID != nil {
		params.CategoryID = *req.CategoryID
	}

	item, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(item))
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.Toggle(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(item))
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
