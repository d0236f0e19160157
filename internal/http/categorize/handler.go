package categorize

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/categorize"
	"github.com/MrJamesThe3rd/financeflow/internal/http/respond"
)

type Handler struct {
	svc *categorize.Service
}

func NewHandler(svc *categorize.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Note       string     `json:"note"`
	CategoryID *uuid.UUID `json:"categoryId"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	note := r.URL.Query().Get("note")
	if note == "" {
		http.Error(w, "note query parameter is required", http.StatusBadRequest)
		return
	}

	id, err := h.svc.Suggest(r.Context(), auth.UserID(r.Context()), note)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := suggestResponse{Note: note}
	if id != uuid.Nil {
		resp.CategoryID = &id
	}

	respond.JSON(w, http.StatusOK, resp)
}

type learnRequest struct {
	Pattern    string    `json:"pattern"`
	CategoryID uuid.UUID `json:"categoryId"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.Learn(r.Context(), auth.UserID(r.Context()), req.Pattern, req.CategoryID); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
