package repository

import (
    "context"
    "database/sql"
    "errors"
    "regexp"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"

    "github.com/iliyamo/film-rental-store/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock: %v", err)
    }
    t.Cleanup(func() { db.Close() })
    return db, mock
}

func TestCustomerSearch(t *testing.T) {
    cols := []string{"customer_id", "store_id", "first_name", "last_name", "email", "active"}

    t.Run("returns page and total", func(t *testing.T) {
        db, mock := newMock(t)
        repo := NewCustomerRepo(db)

        mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM customer WHERE 1=1`)).
            WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
        rows := sqlmock.NewRows(cols).
            AddRow(12, 1, "MARY", "SMITH", "mary@example.com", true).
            AddRow(11, 2, "PATRICIA", "JOHNSON", nil, true)
        mock.ExpectQuery(`SELECT customer_id, store_id, first_name, last_name, email, active`).
            WithArgs(5, 0).
            WillReturnRows(rows)

        got, total, err := repo.Search(context.Background(), CustomerSearchQuery{Page: 1})
        if err != nil {
            t.Fatalf("unexpected error: %v", err)
        }
        if total != 12 {
            t.Fatalf("total = %d, want 12", total)
        }
        if len(got) != 2 {
            t.Fatalf("len = %d, want 2", len(got))
        }
        if got[0].CustomerID != 12 || got[1].Email != nil {
            t.Fatalf("rows scanned incorrectly: %+v", got)
        }
        if err := mock.ExpectationsWereMet(); err != nil {
            t.Fatal(err)
        }
    })

    t.Run("binds optional filters as parameters", func(t *testing.T) {
        db, mock := newMock(t)
        repo := NewCustomerRepo(db)

        mock.ExpectQuery(`SELECT COUNT\(\*\) FROM customer WHERE customer_id = \? AND first_name LIKE \?`).
            WithArgs(uint64(7), "%MAR%").
            WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
        mock.ExpectQuery(`customer_id = \? AND first_name LIKE \?`).
            WithArgs(uint64(7), "%MAR%", 5, 0).
            WillReturnRows(sqlmock.NewRows(cols).AddRow(7, 1, "MARY", "SMITH", nil, true))

        _, _, err := repo.Search(context.Background(), CustomerSearchQuery{Page: 1, CustomerID: 7, FirstName: "MAR"})
        if err != nil {
            t.Fatalf("unexpected error: %v", err)
        }
        if err := mock.ExpectationsWereMet(); err != nil {
            t.Fatal(err)
        }
    })

    t.Run("page past the end yields empty slice", func(t *testing.T) {
        db, mock := newMock(t)
        repo := NewCustomerRepo(db)

        mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM customer WHERE 1=1`)).
            WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
        mock.ExpectQuery(`SELECT customer_id, store_id`).
            WithArgs(5, 20).
            WillReturnRows(sqlmock.NewRows(cols))

        got, total, err := repo.Search(context.Background(), CustomerSearchQuery{Page: 5})
        if err != nil {
            t.Fatalf("unexpected error: %v", err)
        }
        if len(got) != 0 || total != 12 {
            t.Fatalf("got %d rows, total %d", len(got), total)
        }
    })
}

func TestCustomerCreateTx(t *testing.T) {
    email := "jane@example.com"
    req := func() (*model.Customer, *model.Address) {
        return &model.Customer{StoreID: 1, FirstName: "JANE", LastName: "DOE", Email: &email},
            &model.Address{Address: "1 Main St", District: "Alberta", CityID: 300, PostalCode: "12345", Phone: "555-0100"}
    }

    t.Run("populates generated ids", func(t *testing.T) {
        db, mock := newMock(t)
        repo := NewCustomerRepo(db)

        mock.ExpectBegin()
        mock.ExpectExec(`INSERT INTO address`).
            WillReturnResult(sqlmock.NewResult(7, 1))
        mock.ExpectExec(`INSERT INTO customer`).
            WillReturnResult(sqlmock.NewResult(42, 1))
        mock.ExpectCommit()

        tx, err := db.Begin()
        if err != nil {
            t.Fatal(err)
        }
        cust, addr := req()
        if err := repo.CreateTx(context.Background(), tx, cust, addr); err != nil {
            t.Fatalf("CreateTx: %v", err)
        }
        if addr.AddressID != 7 || cust.CustomerID != 42 || cust.AddressID != 7 {
            t.Fatalf("ids not populated: addr=%d cust=%d", addr.AddressID, cust.CustomerID)
        }
        if err := tx.Commit(); err != nil {
            t.Fatal(err)
        }
        if err := mock.ExpectationsWereMet(); err != nil {
            t.Fatal(err)
        }
    })

    t.Run("customer insert failure surfaces and rolls back", func(t *testing.T) {
        db, mock := newMock(t)
        repo := NewCustomerRepo(db)

        mock.ExpectBegin()
        mock.ExpectExec(`INSERT INTO address`).
            WillReturnResult(sqlmock.NewResult(7, 1))
        mock.ExpectExec(`INSERT INTO customer`).
            WillReturnError(errors.New("constraint violation"))
        mock.ExpectRollback()

        tx, err := db.Begin()
        if err != nil {
            t.Fatal(err)
        }
        cust, addr := req()
        if err := repo.CreateTx(context.Background(), tx, cust, addr); err == nil {
            t.Fatal("expected error from CreateTx")
        }
        _ = tx.Rollback()
        if err := mock.ExpectationsWereMet(); err != nil {
            t.Fatal(err)
        }
    })
}

func TestCustomerUpdateTx(t *testing.T) {
    t.Run("updates address in place", func(t *testing.T) {
        db, mock := newMock(t)
        repo := NewCustomerRepo(db)

        mock.ExpectBegin()
        mock.ExpectExec(`UPDATE customer SET`).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectQuery(`SELECT address_id FROM customer`).
            WithArgs(uint64(9)).
            WillReturnRows(sqlmock.NewRows([]string{"address_id"}).AddRow(4))
        mock.ExpectExec(`UPDATE address SET`).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectCommit()

        tx, _ := db.Begin()
        err := repo.UpdateTx(context.Background(), tx, 9,
            &model.Customer{StoreID: 1, FirstName: "A", LastName: "B"},
            &model.Address{Address: "x", District: "y", CityID: 1, PostalCode: "z", Phone: "p"})
        if err != nil {
            t.Fatalf("UpdateTx: %v", err)
        }
        _ = tx.Commit()
        if err := mock.ExpectationsWereMet(); err != nil {
            t.Fatal(err)
        }
    })

    t.Run("skips address when customer has none", func(t *testing.T) {
        db, mock := newMock(t)
        repo := NewCustomerRepo(db)

        mock.ExpectBegin()
        mock.ExpectExec(`UPDATE customer SET`).
            WillReturnResult(sqlmock.NewResult(0, 0))
        mock.ExpectQuery(`SELECT address_id FROM customer`).
            WithArgs(uint64(9)).
            WillReturnError(sql.ErrNoRows)
        mock.ExpectCommit()

        tx, _ := db.Begin()
        err := repo.UpdateTx(context.Background(), tx, 9,
            &model.Customer{StoreID: 1, FirstName: "A", LastName: "B"},
            &model.Address{Address: "x", District: "y", CityID: 1, PostalCode: "z", Phone: "p"})
        if err != nil {
            t.Fatalf("UpdateTx: %v", err)
        }
        _ = tx.Commit()
        if err := mock.ExpectationsWereMet(); err != nil {
            t.Fatal(err)
        }
    })
}

func TestCustomerDeleteTx(t *testing.T) {
    t.Run("missing customer aborts before dependents", func(t *testing.T) {
        db, mock := newMock(t)
        repo := NewCustomerRepo(db)

        mock.ExpectBegin()
        mock.ExpectQuery(`SELECT customer_id FROM customer WHERE customer_id = \? FOR UPDATE`).
            WithArgs(uint64(99)).
            WillReturnError(sql.ErrNoRows)
        mock.ExpectRollback()

        tx, _ := db.Begin()
        err := repo.DeleteTx(context.Background(), tx, 99)
        if !errors.Is(err, sql.ErrNoRows) {
            t.Fatalf("err = %v, want sql.ErrNoRows", err)
        }
        _ = tx.Rollback()
        // No DELETE statement may have run; sqlmock fails on unexpected
        // calls, so meeting the expectations proves the order.
        if err := mock.ExpectationsWereMet(); err != nil {
            t.Fatal(err)
        }
    })

    t.Run("removes payments then rentals then customer", func(t *testing.T) {
        db, mock := newMock(t)
        repo := NewCustomerRepo(db)

        mock.ExpectBegin()
        mock.ExpectQuery(`SELECT customer_id FROM customer WHERE customer_id = \? FOR UPDATE`).
            WithArgs(uint64(3)).
            WillReturnRows(sqlmock.NewRows([]string{"customer_id"}).AddRow(3))
        mock.ExpectExec(`DELETE FROM payment WHERE customer_id = \?`).
            WithArgs(uint64(3)).
            WillReturnResult(sqlmock.NewResult(0, 2))
        mock.ExpectExec(`DELETE FROM rental WHERE customer_id = \?`).
            WithArgs(uint64(3)).
            WillReturnResult(sqlmock.NewResult(0, 4))
        mock.ExpectExec(`DELETE FROM customer WHERE customer_id = \?`).
            WithArgs(uint64(3)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectCommit()

        tx, _ := db.Begin()
        if err := repo.DeleteTx(context.Background(), tx, 3); err != nil {
            t.Fatalf("DeleteTx: %v", err)
        }
        _ = tx.Commit()
        if err := mock.ExpectationsWereMet(); err != nil {
            t.Fatal(err)
        }
    })
}

func TestCustomerGetDetail(t *testing.T) {
    t.Run("not found", func(t *testing.T) {
        db, mock := newMock(t)
        repo := NewCustomerRepo(db)

        mock.ExpectQuery(`SELECT c.customer_id`).
            WithArgs(uint64(404)).
            WillReturnError(sql.ErrNoRows)

        _, err := repo.GetDetail(context.Background(), 404)
        if !errors.Is(err, sql.ErrNoRows) {
            t.Fatalf("err = %v, want sql.ErrNoRows", err)
        }
    })
}
