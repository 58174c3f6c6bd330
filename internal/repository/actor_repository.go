package repository

import (
    "context"
    "database/sql"
)

// ActorRepo provides read-only access to actors and their rental
// statistics.
type ActorRepo struct {
    db *sql.DB
}

// NewActorRepo returns a new ActorRepo bound to the given database.
func NewActorRepo(db *sql.DB) *ActorRepo { return &ActorRepo{db: db} }

// ActorDetail is an actor's profile with their film count and the five
// most-rented films they appear in.
type ActorDetail struct {
    ActorID        uint64       `json:"actor_id"`
    FirstName      string       `json:"first_name"`
    LastName       string       `json:"last_name"`
    FilmCount      uint64       `json:"film_count"`
    TopRentedFilms []RentedFilm `json:"top_rented_films"`
}

// GetDetail loads one actor with their film count and top rented films,
// ranked by rental count descending.  Ties fall back to the database's
// natural order.  It returns sql.ErrNoRows when the actor does not exist.
func (r *ActorRepo) GetDetail(ctx context.Context, actorID uint64) (*ActorDetail, error) {
    const q = `SELECT a.actor_id, a.first_name, a.last_name, COUNT(fa.film_id) AS film_count
               FROM actor a
               JOIN film_actor fa ON a.actor_id = fa.actor_id
               WHERE a.actor_id = ?
               GROUP BY a.actor_id, a.first_name, a.last_name`
    var det ActorDetail
    err := r.db.QueryRowContext(ctx, q, actorID).Scan(
        &det.ActorID, &det.FirstName, &det.LastName, &det.FilmCount,
    )
    if err != nil {
        return nil, err
    }

    det.TopRentedFilms = []RentedFilm{}
    const filmsQ = `SELECT f.film_id, f.title, COUNT(r.rental_id) AS rental_count
                    FROM film f
                    JOIN film_actor fa ON f.film_id = fa.film_id
                    JOIN inventory i ON f.film_id = i.film_id
                    JOIN rental r ON i.inventory_id = r.inventory_id
                    WHERE fa.actor_id = ?
                    GROUP BY f.film_id, f.title
                    ORDER BY rental_count DESC
                    LIMIT ?`
    rows, err := r.db.QueryContext(ctx, filmsQ, actorID, reportLimit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var f RentedFilm
        if err := rows.Scan(&f.FilmID, &f.Title, &f.RentalCount); err != nil {
            return nil, err
        }
        det.TopRentedFilms = append(det.TopRentedFilms, f)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return &det, nil
}
