package repository

import (
    "context"
    "database/sql"
    "errors"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
)

func TestFindAvailableCopyTx(t *testing.T) {
    t.Run("locks and returns a free copy", func(t *testing.T) {
        db, mock := newMock(t)
        repo := NewRentalRepo(db)

        mock.ExpectBegin()
        mock.ExpectQuery(`SELECT i.inventory_id(?s:.*)FOR UPDATE`).
            WithArgs(uint64(10)).
            WillReturnRows(sqlmock.NewRows([]string{"inventory_id"}).AddRow(55))
        mock.ExpectCommit()

        tx, _ := db.Begin()
        got, err := repo.FindAvailableCopyTx(context.Background(), tx, 10)
        if err != nil {
            t.Fatalf("FindAvailableCopyTx: %v", err)
        }
        if got != 55 {
            t.Fatalf("inventory id = %d, want 55", got)
        }
        _ = tx.Commit()
        if err := mock.ExpectationsWereMet(); err != nil {
            t.Fatal(err)
        }
    })

    t.Run("every copy out maps to ErrNoCopies", func(t *testing.T) {
        db, mock := newMock(t)
        repo := NewRentalRepo(db)

        mock.ExpectBegin()
        mock.ExpectQuery(`SELECT i.inventory_id`).
            WithArgs(uint64(10)).
            WillReturnError(sql.ErrNoRows)

        tx, _ := db.Begin()
        _, err := repo.FindAvailableCopyTx(context.Background(), tx, 10)
        if !errors.Is(err, ErrNoCopies) {
            t.Fatalf("err = %v, want ErrNoCopies", err)
        }
    })
}

func TestRentalCreateTx(t *testing.T) {
    db, mock := newMock(t)
    repo := NewRentalRepo(db)

    mock.ExpectBegin()
    mock.ExpectExec(`INSERT INTO rental`).
        WithArgs(uint64(55), uint64(3), 1).
        WillReturnResult(sqlmock.NewResult(900, 1))
    mock.ExpectCommit()

    tx, _ := db.Begin()
    id, err := repo.CreateTx(context.Background(), tx, 55, 3)
    if err != nil {
        t.Fatalf("CreateTx: %v", err)
    }
    if id != 900 {
        t.Fatalf("rental id = %d, want 900", id)
    }
    _ = tx.Commit()
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatal(err)
    }
}

func TestReturnTx(t *testing.T) {
    t.Run("closes an open rental", func(t *testing.T) {
        db, mock := newMock(t)
        repo := NewRentalRepo(db)

        mock.ExpectBegin()
        mock.ExpectQuery(`SELECT inventory_id, customer_id, return_date(?s:.*)FOR UPDATE`).
            WithArgs(uint64(900)).
            WillReturnRows(sqlmock.NewRows([]string{"inventory_id", "customer_id", "return_date"}).
                AddRow(55, 3, nil))
        mock.ExpectExec(`UPDATE rental SET return_date = NOW\(\)`).
            WithArgs(uint64(900)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectCommit()

        tx, _ := db.Begin()
        ret, err := repo.ReturnTx(context.Background(), tx, 900)
        if err != nil {
            t.Fatalf("ReturnTx: %v", err)
        }
        if ret.RentalID != 900 || ret.InventoryID != 55 || ret.CustomerID != 3 {
            t.Fatalf("unexpected ReturnedRental: %+v", ret)
        }
        _ = tx.Commit()
        if err := mock.ExpectationsWereMet(); err != nil {
            t.Fatal(err)
        }
    })

    t.Run("second return is rejected without an update", func(t *testing.T) {
        db, mock := newMock(t)
        repo := NewRentalRepo(db)

        mock.ExpectBegin()
        mock.ExpectQuery(`SELECT inventory_id, customer_id, return_date`).
            WithArgs(uint64(900)).
            WillReturnRows(sqlmock.NewRows([]string{"inventory_id", "customer_id", "return_date"}).
                AddRow(55, 3, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)))
        mock.ExpectRollback()

        tx, _ := db.Begin()
        _, err := repo.ReturnTx(context.Background(), tx, 900)
        if !errors.Is(err, ErrAlreadyReturned) {
            t.Fatalf("err = %v, want ErrAlreadyReturned", err)
        }
        _ = tx.Rollback()
        if err := mock.ExpectationsWereMet(); err != nil {
            t.Fatal(err)
        }
    })

    t.Run("unknown rental surfaces sql.ErrNoRows", func(t *testing.T) {
        db, mock := newMock(t)
        repo := NewRentalRepo(db)

        mock.ExpectBegin()
        mock.ExpectQuery(`SELECT inventory_id, customer_id, return_date`).
            WithArgs(uint64(1)).
            WillReturnError(sql.ErrNoRows)

        tx, _ := db.Begin()
        _, err := repo.ReturnTx(context.Background(), tx, 1)
        if !errors.Is(err, sql.ErrNoRows) {
            t.Fatalf("err = %v, want sql.ErrNoRows", err)
        }
    })
}
