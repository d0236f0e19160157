package notification

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/goal"
	"github.com/MrJamesThe3rd/financeflow/internal/http/respond"
	"github.com/MrJamesThe3rd/financeflow/internal/notification"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
	"github.com/MrJamesThe3rd/financeflow/internal/recurring"
	"github.com/MrJamesThe3rd/financeflow/internal/todo"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

// Sources are the services a sweep reads the user's state from.
type Sources struct {
	Transactions *transaction.Service
	Budgets      *budget.Service
	Categories   *category.Service
	Todos        *todo.Service
	Recurring    *recurring.Service
	Goals        *goal.Service
}

type Handler struct {
	svc     *notification.Service
	sources Sources
	loc     *time.Location
	now     func() time.Time
}

func NewHandler(svc *notification.Service, sources Sources, loc *time.Location) *Handler {
	return &Handler{svc: svc, sources: sources, loc: loc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/unread", h.unread)
	r.Post("/read", h.markAllRead)
	r.Post("/{id}/read", h.markRead)
	r.Post("/sweep", h.sweep)
}

type notificationResponse struct {
	ID          uuid.UUID         `json:"id"`
	Type        notification.Type `json:"type"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	IsRead      bool              `json:"isRead"`
	ReferenceID *uuid.UUID        `json:"referenceId"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func toResponseList(ns []*notification.Notification) []notificationResponse {
	resp := make([]notificationResponse, len(ns))
	for i, n := range ns {
		resp[i] = notificationResponse{
			ID:          n.ID,
			Type:        n.Type,
			Title:       n.Title,
			Message:     n.Message,
			IsRead:      n.IsRead,
			ReferenceID: n.ReferenceID,
			CreatedAt:   n.CreatedAt,
		}
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ns, err := h.svc.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(ns))
}

func (h *Handler) unread(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.UnreadCount(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]int{"count": n})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	if err := h.svc.MarkRead(r.Context(), auth.UserID(r.Context()), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkAllRead(r.Context(), auth.UserID(r.Context())); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// sweep derives reminders from the user's current data and returns the ones it created.
func (h *Handler) sweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := auth.UserID(ctx)
	now := h.now().In(h.loc)
	month := period.Current(now, h.loc)

	in := notification.SweepInput{Now: now, Month: month}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		in.Transactions, err = h.sources.Transactions.List(gctx, userID, transaction.ListFilter{
			StartDate: new(month.Start()),
			EndDate:   new(month.End()),
		})

		return err
	})

	g.Go(func() (err error) {
		in.Budgets, err = h.sources.Budgets.List(gctx, userID, &month)
		return err
	})

	g.Go(func() (err error) {
		in.Categories, err = h.sources.Categories.List(gctx, userID)
		return err
	})

	g.Go(func() (err error) {
		in.Todos, err = h.sources.Todos.List(gctx, userID)
		return err
	})

	g.Go(func() (err error) {
		in.Recurring, err = h.sources.Recurring.List(gctx, userID)
		return err
	})

	g.Go(func() (err error) {
		in.Goals, err = h.sources.Goals.List(gctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		respond.Error(w, r, err)
		return
	}

	created, err := h.svc.Sweep(ctx, userID, in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(created))
}
