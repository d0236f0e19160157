package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/http/access"
	"github.com/MrJamesThe3rd/financeflow/internal/http/admin"
	"github.com/MrJamesThe3rd/financeflow/internal/http/analytics"
	"github.com/MrJamesThe3rd/financeflow/internal/http/budget"
	"github.com/MrJamesThe3rd/financeflow/internal/http/categorize"
	"github.com/MrJamesThe3rd/financeflow/internal/http/category"
	"github.com/MrJamesThe3rd/financeflow/internal/http/export"
	"github.com/MrJamesThe3rd/financeflow/internal/http/goal"
	"github.com/MrJamesThe3rd/financeflow/internal/http/importcsv"
	"github.com/MrJamesThe3rd/financeflow/internal/http/notification"
	"github.com/MrJamesThe3rd/financeflow/internal/http/profile"
	"github.com/MrJamesThe3rd/financeflow/internal/http/recurring"
	"github.com/MrJamesThe3rd/financeflow/internal/http/todo"
	"github.com/MrJamesThe3rd/financeflow/internal/http/transaction"
)

type Handlers struct {
	Access        *access.Handler
	Profile       *profile.Handler
	Transactions  *transaction.Handler
	Categories    *category.Handler
	Budgets       *budget.Handler
	Goals         *goal.Handler
	Todos         *todo.Handler
	Recurring     *recurring.Handler
	Notifications *notification.Handler
	Analytics     *analytics.Handler
	Export        *export.Handler
	Import        *importcsv.Handler
	Categorize    *categorize.Handler
	Admin         *admin.Handler
}

type Options struct {
	Verifier    *auth.Verifier
	Roles       access.RoleChecker
	CORSOrigins []string
}

// New mounts every route under /api/v1. All of them need a session; data routes also need
// the gate to be granted and /admin the admin role.
func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.Verifier))

		r.Route("/access", h.Access.Routes)
		r.Route("/profile", h.Profile.Routes)

		r.Group(func(r chi.Router) {
			r.Use(h.Access.Require)

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Transactions.Routes(r)
			})
			r.Route("/categories", h.Categories.Routes)
			r.Route("/budgets", h.Budgets.Routes)
			r.Route("/goals", h.Goals.Routes)
			r.Route("/todos", h.Todos.Routes)
			r.Route("/recurring", h.Recurring.Routes)
			r.Route("/notifications", h.Notifications.Routes)
			r.Route("/analytics", h.Analytics.Routes)
			r.Route("/export", h.Export.Routes)
			r.Route("/import", h.Import.Routes)
			r.Route("/categorize", h.Categorize.Routes)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(access.RequireAdmin(opts.Roles))
			h.Admin.Routes(r)
		})
	})

	return router
}
