package routes

import (
	"fmt"
	"net/http"

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

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func AddStaticRoutes(router *httprouter.Router, uploadDir string) {
	router.GET("/health", Index)
	router.ServeFiles("/static/uploads/*filepath", http.Dir(uploadDir))
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/login", rl.Limit(h.Login))
}

func AddTaxonomyRoutes(router *httprouter.Router, h *taxonomy.Handler, a *middleware.Auth) {
	router.GET("/api/tags", h.ListTags)
	router.GET("/api/tags/:id", h.GetTag)
	router.POST("/api/tags", a.Authenticate(h.CreateTag))
	router.PUT("/api/tags/:id", a.Authenticate(h.UpdateTag))
	router.DELETE("/api/tags/:id", a.Authenticate(h.DeleteTag))

	router.GET("/api/filter-groups", h.ListFilterGroups)
	router.GET("/api/filter-groups/:id", h.GetFilterGroup)
	router.POST("/api/filter-groups", a.Authenticate(h.CreateFilterGroup))
	router.PUT("/api/filter-groups/:id", a.Authenticate(h.UpdateFilterGroup))
	router.DELETE("/api/filter-groups/:id", a.Authenticate(h.DeleteFilterGroup))

	router.GET("/api/filter-items", h.ListFilterItems)
	router.GET("/api/filter-items/:id", h.GetFilterItem)
	router.POST("/api/filter-items", a.Authenticate(h.CreateFilterItem))
	router.PUT("/api/filter-items/:id", a.Authenticate(h.UpdateFilterItem))
	router.DELETE("/api/filter-items/:id", a.Authenticate(h.DeleteFilterItem))
}

func AddExcursionRoutes(router *httprouter.Router, h *excursions.Handler, a *middleware.Auth) {
	router.GET("/api/catalog", h.Catalog)
	router.GET("/api/catalog/:slug", h.CatalogEntry)

	router.GET("/api/excursions", a.Authenticate(h.List))
	router.POST("/api/excursions", a.Authenticate(h.Create))
	router.GET("/api/excursions/:id", a.Authenticate(h.Get))
	router.PUT("/api/excursions/:id", a.Authenticate(h.Update))
	router.DELETE("/api/excursions/:id", a.Authenticate(h.Delete))
	router.POST("/api/excursions/:id/images", a.Authenticate(h.UploadImages))
	router.DELETE("/api/excursions/:id/images", a.Authenticate(h.DeleteImage))
}

func AddProductRoutes(router *httprouter.Router, h *products.Handler, a *middleware.Auth) {
	router.GET("/api/excursion-products", a.Authenticate(h.List))
	router.POST("/api/excursion-products", a.Authenticate(h.Create))
	router.GET("/api/excursion-products/:id", a.Authenticate(h.Get))
	router.PUT("/api/excursion-products/:id", a.Authenticate(h.Update))
	router.DELETE("/api/excursion-products/:id", a.Authenticate(h.Delete))

	router.GET("/api/excursion-products/:id/availability", h.Availability)
	router.POST("/api/excursion-products/:id/quote", h.Quote)
}

func AddGroupRoutes(router *httprouter.Router, h *groups.Handler, a *middleware.Auth) {
	router.GET("/api/groups", a.Authenticate(h.List))
	router.POST("/api/groups", a.Authenticate(h.Create))
	router.GET("/api/groups/:id", a.Authenticate(h.Get))
	router.PUT("/api/groups/:id", a.Authenticate(h.Update))
	router.DELETE("/api/groups/:id", a.Authenticate(h.Delete))
	router.POST("/api/groups/:id/assign", a.Authenticate(h.Assign))
	router.GET("/api/groups/:id/tourists", a.Authenticate(h.ListTourists))
	router.POST("/api/groups/:id/tourists", a.Authenticate(h.AddTourist))
	router.DELETE("/api/groups/:id/tourists", a.Authenticate(h.RemoveTourist))
	router.GET("/api/groups/:id/manifest.pdf", a.Authenticate(h.Manifest))
}

func AddBookingRoutes(router *httprouter.Router, h *bookings.Handler, a *middleware.Auth, rl *ratelim.RateLimiter) {
	router.POST("/api/bookings", rl.Limit(h.Create))
	router.GET("/api/bookings", a.Authenticate(h.List))
	router.GET("/api/bookings/:id", a.Authenticate(h.Get))
	router.PUT("/api/bookings/:id", a.Authenticate(h.UpdateStatus))
	router.DELETE("/api/bookings/:id", a.Authenticate(h.Delete))
}

func AddLiveRoutes(router *httprouter.Router, hub *livefeed.Hub, a *middleware.Auth, allowedOrigins []string) {
	router.GET("/api/admin/live", livefeed.Handler(hub, a, allowedOrigins))
}
