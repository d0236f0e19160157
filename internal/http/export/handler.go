package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/export"
	"github.com/MrJamesThe3rd/financeflow/internal/http/respond"
)

type Handler struct {
	svc *export.Service
	now func() time.Time
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/json", h.json)
	r.Get("/csv", h.csv)
}

func (h *Handler) json(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	now := h.now()

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, snap, now); err != nil {
		respond.Error(w, r, err)
		return
	}

	attach(w, "application/json", export.JSONFileName(now), buf.Bytes())
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	txs, categories, err := h.svc.Transactions(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, txs, categories); err != nil {
		respond.Error(w, r, err)
		return
	}

	attach(w, "text/csv; charset=utf-8", export.CSVFileName(h.now()), buf.Bytes())
}

// attach writes body as a download. Encoding happens before the status is sent so a
// failure can still become a 500.
func attach(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write export", "file", filename, "error", err)
	}
}
