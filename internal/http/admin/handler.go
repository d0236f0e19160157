package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/financeflow/internal/admin"
	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/http/respond"
	txHandler "github.com/MrJamesThe3rd/financeflow/internal/http/transaction"
)

const defaultActivityLimit = 100

type Handler struct {
	svc *admin.Service
}

func NewHandler(svc *admin.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes expects the router to have checked the admin role already.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/stats", h.stats)
	r.Get("/users", h.listUsers)
	r.Get("/users/{id}/transactions", h.userTransactions)
	r.Patch("/users/{id}/active", h.setActive)
	r.Patch("/users/{id}/admin", h.setAdmin)
	r.Delete("/users/{id}", h.deleteUser)
	r.Get("/activity", h.activity)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, stats)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if users == nil {
		users = []*admin.User{}
	}

	respond.JSON(w, http.StatusOK, users)
}

func (h *Handler) userTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	txs, err := h.svc.UserTransactions(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, txHandler.ToResponseList(txs))
}

type flagRequest struct {
	Value bool `json:"value"`
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	var req flagRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.SetActive(r.Context(), auth.UserID(r.Context()), id, req.Value); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	var req flagRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.SetAdmin(r.Context(), auth.UserID(r.Context()), id, req.Value); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(r.Context(), auth.UserID(r.Context()), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) activity(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}

		limit = n
	}

	entries, err := h.svc.Activity(r.Context(), limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if entries == nil {
		entries = []*admin.Activity{}
	}

	respond.JSON(w, http.StatusOK, entries)
}
