package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса бургер-квин.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))
	r.Use(h.metrics.Middleware)

	r.Method(http.MethodGet, "/metrics", custommiddleware.Handler(h.registry))

	r.Post("/auth", h.Auth)
	r.Post("/users", h.CreateUser)

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		r.Route("/users", func(r chi.Router) {
			r.With(h.authMiddleware.RequireAdmin).Get("/", h.GetUsers)

			r.Get("/{uid}", h.GetUser)
			r.Put("/{uid}", h.UpdateUser)
			r.Delete("/{uid}", h.DeleteUser)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.GetProducts)
			r.Get("/{productId}", h.GetProduct)

			r.With(h.authMiddleware.RequireAdmin).Post("/", h.CreateProduct)
			r.With(h.authMiddleware.RequireAdmin).Put("/{productId}", h.UpdateProduct)
			r.With(h.authMiddleware.RequireAdmin).Delete("/{productId}", h.DeleteProduct)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.GetOrders)
			r.Post("/", h.CreateOrder)

			r.Get("/{orderId}", h.GetOrder)
			r.Put("/{orderId}", h.UpdateOrder)
			r.Delete("/{orderId}", h.DeleteOrder)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
