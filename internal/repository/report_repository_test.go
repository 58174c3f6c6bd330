package repository

import (
    "context"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
)

func TestTopRentedFilms(t *testing.T) {
    db, mock := newMock(t)
    repo := NewReportRepo(db)

    mock.ExpectQuery(`SELECT f.film_id, f.title, COUNT\(r.rental_id\)`).
        WithArgs(reportLimit).
        WillReturnRows(sqlmock.NewRows([]string{"film_id", "title", "rental_count"}).
            AddRow(103, "BUCKET BROTHERHOOD", 34).
            AddRow(738, "ROCKETEER MOTHER", 33))

    got, err := repo.TopRentedFilms(context.Background())
    if err != nil {
        t.Fatalf("TopRentedFilms: %v", err)
    }
    if len(got) != 2 || got[0].RentalCount != 34 {
        t.Fatalf("unexpected ranking: %+v", got)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestTopActors(t *testing.T) {
    db, mock := newMock(t)
    repo := NewReportRepo(db)

    mock.ExpectQuery(`SELECT a.actor_id, a.first_name, a.last_name, COUNT\(fa.film_id\)`).
        WithArgs(reportLimit).
        WillReturnRows(sqlmock.NewRows([]string{"actor_id", "first_name", "last_name", "film_count"}).
            AddRow(107, "GINA", "DEGENERES", 42))

    got, err := repo.TopActors(context.Background())
    if err != nil {
        t.Fatalf("TopActors: %v", err)
    }
    if len(got) != 1 || got[0].FilmCount != 42 {
        t.Fatalf("unexpected ranking: %+v", got)
    }
}
