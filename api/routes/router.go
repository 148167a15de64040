package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/petbazaar/petbazaar-backend/api/controllers"
	"github.com/petbazaar/petbazaar-backend/api/middleware"
	cartsvc "github.com/petbazaar/petbazaar-backend/internal/cart"
	catalogsvc "github.com/petbazaar/petbazaar-backend/internal/catalog"
	checkoutsvc "github.com/petbazaar/petbazaar-backend/internal/checkout"
	ordersvc "github.com/petbazaar/petbazaar-backend/internal/orders"
	wishlistsvc "github.com/petbazaar/petbazaar-backend/internal/wishlist"
	"github.com/petbazaar/petbazaar-backend/pkg/config"
	"github.com/petbazaar/petbazaar-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	carts *cartsvc.Manager,
	catalogService catalogsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService ordersvc.Service,
	wishlistService wishlistsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisP,
		}))
	})

	// Catalog browsing is anonymous; everything touching a user's cart,
	// checkout, orders, or wishlist requires a bearer token.
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Get("/{productId}", controllers.ProductDetail(catalogService, logg))
		})
		r.Route("/pets", func(r chi.Router) {
			r.Get("/", controllers.PetList(catalogService, logg))
			r.Get("/{petId}", controllers.PetDetail(catalogService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(carts, logg))
				r.Delete("/", controllers.CartClear(carts, logg))
				r.Post("/items", controllers.CartAddItem(carts, catalogService, logg))
				r.Patch("/items/{kind}/{entityId}", controllers.CartSetQuantity(carts, logg))
				r.Delete("/items/{kind}/{entityId}", controllers.CartRemoveItem(carts, logg))
				r.Post("/validate", controllers.CartValidate(carts, catalogService, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", controllers.CheckoutStart(checkoutService, logg))
				r.Get("/", controllers.CheckoutCurrent(checkoutService, logg))
				r.Post("/shipping", controllers.CheckoutSubmitShipping(checkoutService, logg))
				r.Post("/payment", controllers.CheckoutSelectPayment(checkoutService, logg))
				r.Post("/back", controllers.CheckoutBack(checkoutService, logg))
				r.Post("/confirm", controllers.CheckoutConfirm(checkoutService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(ordersService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
				r.Post("/{orderId}/transaction", controllers.OrderAttachTransaction(ordersService, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(wishlistService, logg))
				r.Put("/{kind}/{entityId}", controllers.WishlistAdd(wishlistService, logg))
				r.Delete("/{kind}/{entityId}", controllers.WishlistRemove(wishlistService, logg))
			})
		})
	})

	return r
}
