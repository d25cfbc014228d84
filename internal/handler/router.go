package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kashvicrafts/storefront-api/internal/auth"
)

// Handlers groups the per-resource handlers mounted by NewRouter.
type Handlers struct {
	Auth       *AuthHandler
	Users      *UserHandler
	Addresses  *AddressHandler
	Products   *ProductHandler
	Orders     *OrderHandler
	OrderItems *OrderItemHandler
	GiftBoxes  *GiftBoxHandler
}

// NewRouter mounts all routes. Signup, login, the password reset flow, the
// inquiry entry point and catalog reads are public; everything else sits
// behind bearer auth.
func NewRouter(h Handlers, authenticator *auth.JWTAuthenticator, logger *zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(logger))

	protected := Authenticate(authenticator)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Auth.Signup)
		r.Post("/login", h.Auth.Login)
		r.Post("/forgot-password", h.Auth.ForgotPassword)
		r.Post("/reset-password", h.Auth.ResetPassword)
	})

	r.Route("/users", func(r chi.Router) {
		// The inquiry form posts here without credentials.
		r.Post("/", h.Users.Create)

		r.Group(func(r chi.Router) {
			r.Use(protected)
			r.Get("/", h.Users.List)
			r.Get("/{id}", h.Users.Get)
			r.Patch("/{id}", h.Users.Update)
			r.Delete("/{id}", h.Users.Delete)
		})
	})

	r.Route("/addresses", func(r chi.Router) {
		r.Use(protected)
		r.Post("/", h.Addresses.Create)
		r.Get("/", h.Addresses.List)
		r.Get("/{id}", h.Addresses.Get)
		r.Patch("/{id}", h.Addresses.Update)
		r.Delete("/{id}", h.Addresses.Delete)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.Products.List)
		r.Get("/categories", h.Products.Categories)
		r.Get("/{id}", h.Products.Get)

		r.Group(func(r chi.Router) {
			r.Use(protected)
			r.Post("/", h.Products.Create)
			r.Patch("/{id}", h.Products.Update)
			r.Delete("/{id}", h.Products.Delete)
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(protected)
		r.Post("/", h.Orders.Create)
		r.Get("/", h.Orders.List)
		r.Get("/report", h.Orders.Report)
		r.Get("/{id}", h.Orders.Get)
		r.Patch("/{id}", h.Orders.Update)
		r.Delete("/{id}", h.Orders.Delete)
	})

	r.Route("/order-items", func(r chi.Router) {
		r.Use(protected)
		r.Get("/", h.OrderItems.List)
		r.Get("/{id}", h.OrderItems.Get)
		r.Patch("/{id}", h.OrderItems.Update)
		r.Delete("/{id}", h.OrderItems.Delete)
	})

	r.Get("/giftboxes/{name}", h.GiftBoxes.Get)

	return r
}
