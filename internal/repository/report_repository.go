package repository

import (
    "context"
    "database/sql"
)

// reportLimit is the N of the top-N aggregates served by the landing page.
const reportLimit = 5

// RentedFilm is one row of a rental-count ranking: a film and how many
// times its copies have been rented.
type RentedFilm struct {
    FilmID      uint64 `json:"film_id"`
    Title       string `json:"title"`
    RentalCount uint64 `json:"rental_count"`
}

// TopActor is one row of the actor ranking: an actor and the number of
// films they appear in.
type TopActor struct {
    ActorID   uint64 `json:"actor_id"`
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
    FilmCount uint64 `json:"film_count"`
}

// ReportRepo serves the small read-only aggregates composed on the landing
// endpoint.  Both queries are GROUP BY rankings with no pagination; tie
// order beyond the count is whatever the database yields.
type ReportRepo struct {
    db *sql.DB
}

// NewReportRepo returns a new ReportRepo bound to the given database.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// TopRentedFilms returns the five films with the most rental rows across
// all their inventory copies, most rented first.
func (r *ReportRepo) TopRentedFilms(ctx context.Context) ([]RentedFilm, error) {
    const q = `SELECT f.film_id, f.title, COUNT(r.rental_id) AS rental_count
               FROM film f
               JOIN inventory i ON f.film_id = i.film_id
               JOIN rental r ON i.inventory_id = r.inventory_id
               GROUP BY f.film_id, f.title
               ORDER BY rental_count DESC
               LIMIT ?`
    rows, err := r.db.QueryContext(ctx, q, reportLimit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]RentedFilm, 0, reportLimit)
    for rows.Next() {
        var f RentedFilm
        if err := rows.Scan(&f.FilmID, &f.Title, &f.RentalCount); err != nil {
            return nil, err
        }
        out = append(out, f)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// TopActors returns the five actors appearing in the most films, ranked by
// distinct film count descending.
func (r *ReportRepo) TopActors(ctx context.Context) ([]TopActor, error) {
    const q = `SELECT a.actor_id, a.first_name, a.last_name, COUNT(fa.film_id) AS film_count
               FROM actor a
               JOIN film_actor fa ON a.actor_id = fa.actor_id
               GROUP BY a.actor_id, a.first_name, a.last_name
               ORDER BY film_count DESC
               LIMIT ?`
    rows, err := r.db.QueryContext(ctx, q, reportLimit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]TopActor, 0, reportLimit)
    for rows.Next() {
        var a TopActor
        if err := rows.Scan(&a.ActorID, &a.FirstName, &a.LastName, &a.FilmCount); err != nil {
            return nil, err
        }
        out = append(out, a)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
