package handler

import (
    "database/sql"
    "net/http"
    "strings"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "golang.org/x/crypto/bcrypt"

    "github.com/iliyamo/film-rental-store/internal/config"
    "github.com/iliyamo/film-rental-store/internal/repository"
    "github.com/iliyamo/film-rental-store/internal/utils"
)

func testAdminHandler(t *testing.T) (*AdminHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock := newMock(t)
    cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, BcryptCost: bcrypt.MinCost}
    return NewAdminHandler(cfg, repository.NewAdminRepo(db)), mock
}

func TestAdminLogin(t *testing.T) {
    adminCols := []string{"id", "username", "password_hash", "created_at"}
    hash, err := utils.HashPassword("s3cret", bcrypt.MinCost)
    if err != nil {
        t.Fatal(err)
    }

    t.Run("missing credentials yield 400", func(t *testing.T) {
        h, mock := testAdminHandler(t)

        rec, _ := doJSON(t, http.MethodPost, "/api/admin/login",
            `{"username":"root"}`, h.Login, nil)
        if rec.Code != http.StatusBadRequest {
            t.Fatalf("status = %d, want 400", rec.Code)
        }
        if err := mock.ExpectationsWereMet(); err != nil {
            t.Fatal(err)
        }
    })

    t.Run("unknown username yields 401", func(t *testing.T) {
        h, mock := testAdminHandler(t)

        mock.ExpectQuery(`SELECT id,username,password_hash,created_at`).
            WithArgs("ghost").
            WillReturnError(sql.ErrNoRows)

        rec, out := doJSON(t, http.MethodPost, "/api/admin/login",
            `{"username":"ghost","password":"whatever"}`, h.Login, nil)
        if rec.Code != http.StatusUnauthorized {
            t.Fatalf("status = %d, want 401", rec.Code)
        }
        if out["error"] != "invalid credentials" {
            t.Fatalf("error = %v", out["error"])
        }
    })

    t.Run("wrong password yields the same 401", func(t *testing.T) {
        h, mock := testAdminHandler(t)

        mock.ExpectQuery(`SELECT id,username,password_hash,created_at`).
            WithArgs("root").
            WillReturnRows(sqlmock.NewRows(adminCols).AddRow(1, "root", hash, time.Now()))

        rec, out := doJSON(t, http.MethodPost, "/api/admin/login",
            `{"username":"root","password":"wrong"}`, h.Login, nil)
        if rec.Code != http.StatusUnauthorized {
            t.Fatalf("status = %d, want 401", rec.Code)
        }
        if out["error"] != "invalid credentials" {
            t.Fatalf("error = %v", out["error"])
        }
    })

    t.Run("valid credentials issue a token without echoing the hash", func(t *testing.T) {
        h, mock := testAdminHandler(t)

        mock.ExpectQuery(`SELECT id,username,password_hash,created_at`).
            WithArgs("root").
            WillReturnRows(sqlmock.NewRows(adminCols).AddRow(1, "root", hash, time.Now()))

        rec, out := doJSON(t, http.MethodPost, "/api/admin/login",
            `{"username":"root","password":"s3cret"}`, h.Login, nil)
        if rec.Code != http.StatusOK {
            t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
        }
        access, ok := out["access"].(map[string]any)
        if !ok || access["token"] == "" {
            t.Fatalf("no access token in response: %v", out)
        }
        if strings.Contains(rec.Body.String(), hash) {
            t.Fatal("password hash leaked into the response body")
        }
        if strings.Contains(rec.Body.String(), "s3cret") {
            t.Fatal("plaintext password leaked into the response body")
        }
    })
}

func TestAdminAdd(t *testing.T) {
    t.Run("stores a bcrypt hash, never the plaintext", func(t *testing.T) {
        h, mock := testAdminHandler(t)

        mock.ExpectExec(`INSERT INTO admin_users`).
            WithArgs("newadmin", sqlmock.AnyArg()).
            WillReturnResult(sqlmock.NewResult(2, 1))

        rec, _ := doJSON(t, http.MethodPost, "/api/admin/add",
            `{"username":"newadmin","password":"pass123"}`, h.Add, nil)
        if rec.Code != http.StatusCreated {
            t.Fatalf("status = %d, want 201\n%s", rec.Code, rec.Body.String())
        }
        if err := mock.ExpectationsWereMet(); err != nil {
            t.Fatal(err)
        }
    })

    t.Run("duplicate username maps to 409", func(t *testing.T) {
        h, mock := testAdminHandler(t)

        mock.ExpectExec(`INSERT INTO admin_users`).
            WithArgs("root", sqlmock.AnyArg()).
            WillReturnError(&duplicateErr{})

        rec, out := doJSON(t, http.MethodPost, "/api/admin/add",
            `{"username":"root","password":"pass123"}`, h.Add, nil)
        if rec.Code != http.StatusConflict {
            t.Fatalf("status = %d, want 409", rec.Code)
        }
        if out["error"] != "username already exists" {
            t.Fatalf("error = %v", out["error"])
        }
    })
}

// duplicateErr mimics the MySQL duplicate-key error text.
type duplicateErr struct{}

func (*duplicateErr) Error() string {
    return "Error 1062 (23000): Duplicate entry 'root' for key 'admin_users.username'"
}
