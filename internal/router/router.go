package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // Echo web framework used for routing

    "github.com/iliyamo/film-rental-store/internal/handler"    // handlers that implement endpoint logic
    "github.com/iliyamo/film-rental-store/internal/middleware" // middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that need no handler state on the
// provided Echo instance.  Currently it exposes only a health check for
// load balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterCustomers registers the customer CRUD and rental-workflow
// endpoints under /api/customers.  Listing, creation, update, deletion
// and the detail view live here, together with the rental-return route
// which the original frontend calls under the customers prefix.
func RegisterCustomers(e *echo.Echo, h *handler.CustomerHandler, r *handler.RentalHandler) {
    g := e.Group("/api/customers")
    g.GET("/", h.List)
    g.POST("/", h.Create)
    g.GET("/:id", h.Get)
    g.PUT("/:id", h.Update)
    g.DELETE("/:id", h.Delete)
    // The return route sits before /:id registration conflicts would
    // matter: Echo matches the static segment first.
    g.PUT("/return_rental/:rental_id", r.Return)
}

// RegisterCatalogue registers the read-only film/actor endpoints and the
// checkout route.  The cache middleware (a no-op when Redis is absent)
// fronts the search and landing queries.
func RegisterCatalogue(e *echo.Echo, f *handler.FilmHandler, r *handler.RentalHandler, l *handler.LandingHandler, cache echo.MiddlewareFunc) {
    e.GET("/", l.Landing, cache)
    e.GET("/films", f.SearchFilms, cache)
    e.GET("/film/:id", f.GetFilm)
    e.GET("/actor/:id", f.GetActor)
    e.POST("/rentals/rent", r.Rent)
}

// RegisterAdmin registers the admin account endpoints and applies the
// necessary middleware.  Login and creation live under /api/admin without
// authentication; /api/admin/me requires a valid access token with the
// ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
    g := e.Group("/api/admin")
    g.POST("/login", a.Login)
    g.POST("/add", a.Add)

    auth := e.Group("/api/admin")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole("ADMIN"))
    auth.GET("/me", a.Me)
}
