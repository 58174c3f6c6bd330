package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/film-rental-store/internal/repository"
)

// FilmHandler serves the read-only catalogue endpoints: film search, film
// detail with cast, and actor detail with rental statistics.
type FilmHandler struct {
    Films  *repository.FilmRepo
    Actors *repository.ActorRepo
}

// NewFilmHandler constructs a FilmHandler and panics on nil deps.
func NewFilmHandler(films *repository.FilmRepo, actors *repository.ActorRepo) *FilmHandler {
    if films == nil || actors == nil {
        panic("nil repository passed to NewFilmHandler")
    }
    return &FilmHandler{Films: films, Actors: actors}
}

// GetFilm handles GET /film/:id.  It returns film metadata with the
// language name resolved plus the full cast, or 404 when absent.
func (h *FilmHandler) GetFilm(c echo.Context) error {
    filmID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || filmID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    det, err := h.Films.GetDetail(ctx, filmID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
        }
        c.Logger().Errorf("film detail failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, det)
}

// GetActor handles GET /actor/:id.  It returns the actor's profile with
// film count and their five most-rented films, or 404 when absent.
func (h *FilmHandler) GetActor(c echo.Context) error {
    actorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || actorID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    det, err := h.Actors.GetDetail(ctx, actorID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
        }
        c.Logger().Errorf("actor detail failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, det)
}

// SearchFilms handles GET /films.  The film, actor and genre query
// parameters are optional partial matches; results are capped at 50 rows
// with no pagination.
func (h *FilmHandler) SearchFilms(c echo.Context) error {
    q := repository.FilmSearchQuery{
        Title: c.QueryParam("film"),
        Actor: c.QueryParam("actor"),
        Genre: c.QueryParam("genre"),
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    films, err := h.Films.Search(ctx, q)
    if err != nil {
        c.Logger().Errorf("film search failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, films)
}
