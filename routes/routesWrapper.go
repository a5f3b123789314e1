package routes

import (
	"tourdesk/auth"
	"tourdesk/bookings"
	"tourdesk/excursions"
	"tourdesk/groups"
	"tourdesk/livefeed"
	"tourdesk/middleware"
	"tourdesk/products"
	"tourdesk/ratelim"
	"tourdesk/taxonomy"

	"github.com/julienschmidt/httprouter"
)

// Deps carries everything the route groups are built from.
type Deps struct {
	Auth           *middleware.Auth
	RateLimiter    *ratelim.RateLimiter
	Hub            *livefeed.Hub
	AllowedOrigins []string
	UploadDir      string

	AuthHandler      *auth.Handler
	TaxonomyHandler  *taxonomy.Handler
	ExcursionHandler *excursions.Handler
	ProductHandler   *products.Handler
	GroupHandler     *groups.Handler
	BookingHandler   *bookings.Handler
}

func RoutesWrapper(router *httprouter.Router, d Deps) {
	AddStaticRoutes(router, d.UploadDir)
	AddAuthRoutes(router, d.AuthHandler, d.RateLimiter)
	AddTaxonomyRoutes(router, d.TaxonomyHandler, d.Auth)
	AddExcursionRoutes(router, d.ExcursionHandler, d.Auth)
	AddProductRoutes(router, d.ProductHandler, d.Auth)
	AddGroupRoutes(router, d.GroupHandler, d.Auth)
	AddBookingRoutes(router, d.BookingHandler, d.Auth, d.RateLimiter)
	AddLiveRoutes(router, d.Hub, d.Auth, d.AllowedOrigins)
}
