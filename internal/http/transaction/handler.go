package transaction

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/http/respond"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createRequest struct {
	Date          string                    `json:"date"`
	Type          transaction.Type          `json:"type"`
	CategoryID    *uuid.UUID                `json:"categoryId"`
	Amount        decimal.Decimal           `json:"amount"`
	PaymentMethod transaction.PaymentMethod `json:"paymentMethod"`
	Note          string                    `json:"note"`
	Tags          []string                  `json:"tags"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	date, err := respond.Date(req.Date)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	params := transaction.CreateParams{
		UserID:        auth.UserID(r.Context()),
		Type:          req.Type,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
		Tags:          req.Tags,
	}

	if date != nil {
		params.Date = *date
	}

	if req.CategoryID != nil {
		params.CategoryID = *req.CategoryID
	}

	tx, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, ToResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := transaction.ListFilter{}

	if s := q.Get("type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	if s := q.Get("categoryId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid categoryId", http.StatusBadRequest)
			return
		}

		filter.CategoryID = &id
	}

	var err error

	if filter.StartDate, err = respond.Date(q.Get("startDate")); err != nil {
		respond.Error(w, r, err)
		return
	}

	if filter.EndDate, err = respond.Date(q.Get("endDate")); err != nil {
		respond.Error(w, r, err)
		return
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}

		filter.Limit = n
	}

	txs, err := h.svc.List(r.Context(), auth.UserID(r.Context()), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, ToResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	tx, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, ToResponse(tx))
}

type updateRequest struct {
	Date          *string                    `json:"date,omitempty"`
	Type          *transaction.Type          `json:"type,omitempty"`
	CategoryID    *uuid.UUID                 `json:"categoryId,omitempty"`
	Amount        *decimal.Decimal           `json:"amount,omitempty"`
	PaymentMethod *transaction.PaymentMethod `json:"paymentMethod,omitempty"`
	Note          *string                    `json:"note,omitempty"`
	Tags          []string                   `json:"tags,omitempty"`
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

	params := transaction.UpdateParams{
		Type:          req.Type,
		CategoryID:    req.CategoryID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
		Tags:          req.Tags,
	}

	if req.Date != nil {
		date, err := respond.Date(*req.Date)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		params.Date = date
	}

	tx, err := h.svc.Update(r.Context(), auth.UserID(r.Context()), id, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, ToResponse(tx))
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
