package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/film-rental-store/internal/model"
)

// filmSearchLimit caps the number of rows returned by Search.  The search
// endpoint has no pagination; the cap keeps unfiltered queries bounded.
const filmSearchLimit = 50

// FilmRepo provides read-only access to the film catalogue: film search,
// film details and the film/actor association.
type FilmRepo struct {
    db *sql.DB
}

// NewFilmRepo returns a new FilmRepo bound to the given database.
func NewFilmRepo(db *sql.DB) *FilmRepo { return &FilmRepo{db: db} }

// FilmSearchQuery carries the optional partial-match filters for Search.
type FilmSearchQuery struct {
    Title string // partial film title
    Actor string // partial actor first or last name
    Genre string // partial category name
}

// FilmSearchRow is one row of a film search result.  Genre may be nil for
// films without a category association.
type FilmSearchRow struct {
    FilmID      uint64  `json:"film_id"`
    Title       string  `json:"title"`
    ReleaseYear *uint16 `json:"release_year"`
    Genre       *string `json:"genre"`
}

// Search composes the optional filters over LEFT JOINs across the
// film/actor/category association tables and returns at most
// filmSearchLimit distinct films.  Filters use parameter binding; values
// are never interpolated into the SQL text.
func (r *FilmRepo) Search(ctx context.Context, q FilmSearchQuery) ([]FilmSearchRow, error) {
    where := []string{}
    args := []any{}

    if q.Title != "" {
        where = append(where, "f.title LIKE ?")
        args = append(args, "%"+q.Title+"%")
    }
    if q.Actor != "" {
        where = append(where, "(a.first_name LIKE ? OR a.last_name LIKE ?)")
        pat := "%" + q.Actor + "%"
        args = append(args, pat, pat)
    }
    if q.Genre != "" {
        where = append(where, "g.name LIKE ?")
        args = append(args, "%"+q.Genre+"%")
    }

    cond := "1=1"
    if len(where) > 0 {
        cond = strings.Join(where, " AND ")
    }

    dataSQL := `SELECT DISTINCT f.film_id, f.title, f.release_year, g.name AS genre
		FROM film f
		LEFT JOIN film_actor fa ON f.film_id = fa.film_id
		LEFT JOIN actor a ON fa.actor_id = a.actor_id
		LEFT JOIN film_category fc ON f.film_id = fc.film_id
		LEFT JOIN category g ON fc.category_id = g.category_id
		WHERE ` + cond + `
		LIMIT ?`

    args = append(args, filmSearchLimit)

    rows, err := r.db.QueryContext(ctx, dataSQL, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]FilmSearchRow, 0, filmSearchLimit)
    for rows.Next() {
        var row FilmSearchRow
        var year sql.NullInt64
        var genre sql.NullString
        if err := rows.Scan(&row.FilmID, &row.Title, &year, &genre); err != nil {
            return nil, err
        }
        if year.Valid {
            y := uint16(year.Int64)
            row.ReleaseYear = &y
        }
        if genre.Valid {
            g := genre.String
            row.Genre = &g
        }
        out = append(out, row)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// FilmDetail is a film's metadata together with its full cast.
type FilmDetail struct {
    model.Film
    Actors []model.Actor `json:"actors"`
}

// GetDetail loads one film with its language name resolved and the complete
// cast list.  It returns sql.ErrNoRows when the film does not exist.
func (r *FilmRepo) GetDetail(ctx context.Context, filmID uint64) (*FilmDetail, error) {
    const q = `SELECT f.film_id, f.title, f.description, f.release_year, l.name AS language, f.rating
               FROM film f
               JOIN language l ON f.language_id = l.language_id
               WHERE f.film_id = ?`
    var det FilmDetail
    var desc, rating sql.NullString
    var year sql.NullInt64
    err := r.db.QueryRowContext(ctx, q, filmID).Scan(
        &det.FilmID, &det.Title, &desc, &year, &det.Language, &rating,
    )
    if err != nil {
        return nil, err
    }
    if desc.Valid {
        d := desc.String
        det.Description = &d
    }
    if year.Valid {
        y := uint16(year.Int64)
        det.ReleaseYear = &y
    }
    if rating.Valid {
        rt := rating.String
        det.Rating = &rt
    }

    det.Actors = []model.Actor{}
    const castQ = `SELECT a.actor_id, a.first_name, a.last_name
                   FROM actor a
                   JOIN film_actor fa ON a.actor_id = fa.actor_id
                   WHERE fa.film_id = ?`
    rows, err := r.db.QueryContext(ctx, castQ, filmID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var a model.Actor
        if err := rows.Scan(&a.ActorID, &a.FirstName, &a.LastName); err != nil {
            return nil, err
        }
        det.Actors = append(det.Actors, a)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return &det, nil
}

// TitleByID returns just the title of a film.  Used when enriching rental
// events without loading the whole detail row.
func (r *FilmRepo) TitleByID(ctx context.Context, filmID uint64) (string, error) {
    var title string
    err := r.db.QueryRowContext(ctx,
        `SELECT title FROM film WHERE film_id = ?`, filmID).Scan(&title)
    return title, err
}
