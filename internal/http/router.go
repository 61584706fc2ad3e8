package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/tripsplit/internal/http/api"
	"github.com/MrJamesThe3rd/tripsplit/internal/http/expense"
	"github.com/MrJamesThe3rd/tripsplit/internal/http/export"
	"github.com/MrJamesThe3rd/tripsplit/internal/http/item"
	"github.com/MrJamesThe3rd/tripsplit/internal/http/trip"
	"github.com/MrJamesThe3rd/tripsplit/internal/http/user"
)

type Options struct {
	AllowedOrigins []string
	// Metrics is served at /metrics when set.
	Metrics http.Handler
}

func New(
	opts Options,
	tokens api.TokenValidator,
	users api.UserGetter,
	itemsV1 *item.Handler,
	tripsV1 *trip.Handler,
	expensesV1 *expense.Handler,
	usersV1 *user.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(api.Authenticate(tokens, users))

		r.Route("/items", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			itemsV1.Routes(r)
		})

		r.Route("/trips", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				tripsV1.Routes(r)
				r.Route("/{tripID}/payments", expensesV1.PaymentRoutes)
				r.Get("/{tripID}/settlement", expensesV1.Settlement)
				r.Route("/{tripID}/items", itemsV1.TripRoutes)
				r.Route("/{tripID}/export", exportV1.Routes)
			})

			r.Route("/{tripID}/expenses", expensesV1.ExpenseRoutes)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			usersV1.Routes(r)
		})
	})

	return router
}
