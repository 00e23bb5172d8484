package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"gerai-be/internal/logger"
	"gerai-be/internal/middleware"
)

// Handlers bundles the endpoint groups the router mounts.
type Handlers struct {
	Profile      *ProfileHandler
	Admin        *AdminHandler
	Catalog      *CatalogHandler
	Cart         *CartHandler
	Order        *OrderHandler
	Notification *NotificationHandler
	Share        *ShareHandler
}

func NewRouter(h Handlers, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(logger.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.AuthMiddleware(jwtSecret))

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.Profile.Ping)
		r.Get("/profile/{userID}", h.Profile.GetProfile)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/users", h.Admin.ListUsers)
			r.Patch("/users/{userID}/whatsapp", h.Admin.UpdateWhatsApp)
			r.Get("/orders", h.Admin.ListOrders)
			r.Patch("/orders/{orderID}/status", h.Admin.UpdateOrderStatus)
			r.Get("/stats", h.Admin.GetStats)

			r.Post("/products", h.Admin.CreateProduct)
			r.Patch("/products/{productID}", h.Admin.UpdateProduct)
			r.Delete("/products/{productID}", h.Admin.DeleteProduct)
			r.Post("/categories", h.Admin.CreateCategory)
			r.Patch("/categories/{categoryID}/active", h.Admin.SetCategoryActive)
		})

		r.Post("/notifications/order-created", h.Notification.OrderCreated)

		r.Get("/products", h.Catalog.ListProducts)
		r.Get("/categories", h.Catalog.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Patch("/items/{productID}", h.Cart.UpdateQuantity)
			r.Delete("/items/{productID}", h.Cart.RemoveItem)
		})

		r.Get("/favorites", h.Cart.ListFavorites)
		r.Post("/favorites/{productID}/toggle", h.Cart.ToggleFavorite)

		r.Post("/orders", h.Order.Create)
		r.Get("/orders", h.Order.ListOwn)
	})

	r.Get("/product/{id}", h.Share.ProductPage)
	r.NotFound(h.Share.SPA)

	return r
}
