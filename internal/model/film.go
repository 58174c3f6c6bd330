package model

// Film mirrors the columns of the `film` table that this API exposes.
// Films are read-only from this layer's perspective; the catalogue is
// maintained directly in the database.
type Film struct {
    FilmID      uint64  `json:"film_id"`      // film.film_id
    Title       string  `json:"title"`        // film.title
    Description *string `json:"description"`  // film.description (nullable)
    ReleaseYear *uint16 `json:"release_year"` // film.release_year (nullable)
    Language    string  `json:"language"`     // language.name via film.language_id
    Rating      *string `json:"rating"`       // film.rating (nullable enum)
}

// Actor mirrors the `actor` table.  Read-only.
type Actor struct {
    ActorID   uint64 `json:"actor_id"`   // actor.actor_id
    FirstName string `json:"first_name"` // actor.first_name
    LastName  string `json:"last_name"`  // actor.last_name
}
