package todo

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/http/respond"
	"github.com/MrJamesThe3rd/financeflow/internal/todo"
)

type Handler struct {
	svc *todo.Service
}

func NewHandler(svc *todo.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/{id}/toggle", h.toggle)
	r.Delete("/{id}", h.delete)
}

type todoResponse struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    todo.Priority `json:"priority"`
	Status      todo.Status   `json:"status"`
	DueDate     *string       `json:"dueDate"`
	CreatedAt   time.Time     `json:"createdAt"`
	CompletedAt *time.Time    `json:"completedAt"`
}

func toResponse(t *todo.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		DueDate:     respond.FormatDate(t.DueDate),
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]todoResponse, len(todos))
	for i, t := range todos {
		resp[i] = toResponse(t)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    todo.Priority `json:"priority"`
	DueDate     string        `json:"dueDate"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	due, err := respond.Date(req.DueDate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	t, err := h.svc.Create(r.Context(), todo.CreateParams{
		UserID:      auth.UserID(r.Context()),
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     due,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(t))
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	t, err := h.svc.Toggle(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
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
