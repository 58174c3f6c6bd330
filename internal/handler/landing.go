package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/film-rental-store/internal/repository"
)

// LandingHandler composes the two top-5 aggregates on the landing page.
// Each aggregate is independently queryable in the repository layer; this
// handler simply joins their results into a single summary body.
type LandingHandler struct {
    Reports *repository.ReportRepo
}

// NewLandingHandler constructs a LandingHandler and panics on a nil repo.
func NewLandingHandler(reports *repository.ReportRepo) *LandingHandler {
    if reports == nil {
        panic("nil repository passed to NewLandingHandler")
    }
    return &LandingHandler{Reports: reports}
}

// Landing handles GET /.  It returns the five most-rented films and the
// five actors with the most films in the store.
func (h *LandingHandler) Landing(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    topFilms, err := h.Reports.TopRentedFilms(ctx)
    if err != nil {
        c.Logger().Errorf("top films query failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    topActors, err := h.Reports.TopActors(ctx)
    if err != nil {
        c.Logger().Errorf("top actors query failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "top_rented_films": topFilms,
        "top_actors":       topActors,
    })
}
