package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"
)

// ErrNoCopies indicates that every inventory copy of the requested film is
// currently checked out.  Handlers should translate this into an HTTP 400
// response.
var ErrNoCopies = errors.New("no available copies")

// ErrAlreadyReturned indicates that a rental's return_date is already set.
// The return transition is one-way; handlers should translate this into an
// HTTP 400 response.
var ErrAlreadyReturned = errors.New("rental already returned")

// checkoutStaffID is the staff member recorded on rentals created through
// the API.  The original workflow always books under the first staff row.
const checkoutStaffID = 1

// RentalRepo provides data access to the rental and inventory tables.  The
// checkout and return operations are exposed only as Tx variants: both are
// check-then-act sequences that rely on locking reads, so they must run
// inside a caller-owned transaction to be correct under concurrency.
type RentalRepo struct {
    db *sql.DB
}

// NewRentalRepo returns a new RentalRepo bound to the given database.
func NewRentalRepo(db *sql.DB) *RentalRepo { return &RentalRepo{db: db} }

// DB exposes the underlying sql.DB so handlers can begin transactions.
func (r *RentalRepo) DB() *sql.DB { return r.db }

// FindAvailableCopyTx locks and returns one inventory copy of the film
// that has no open rental.  The FOR UPDATE read serializes concurrent
// checkouts: two requests racing for the last copy block on the same
// inventory row, and the loser re-evaluates after the winner's rental row
// is committed.  Returns ErrNoCopies when every copy is out.
func (r *RentalRepo) FindAvailableCopyTx(ctx context.Context, tx *sql.Tx, filmID uint64) (uint64, error) {
    const q = `SELECT i.inventory_id
               FROM inventory i
               LEFT JOIN rental r ON r.inventory_id = i.inventory_id AND r.return_date IS NULL
               WHERE i.film_id = ? AND r.rental_id IS NULL
               LIMIT 1
               FOR UPDATE`
    var inventoryID uint64
    err := tx.QueryRowContext(ctx, q, filmID).Scan(&inventoryID)
    if err == sql.ErrNoRows {
        return 0, ErrNoCopies
    }
    if err != nil {
        return 0, err
    }
    return inventoryID, nil
}

// CreateTx inserts a new open rental for the given inventory copy within
// the provided transaction and returns the generated rental ID.  The
// rental starts now with a NULL return_date.
func (r *RentalRepo) CreateTx(ctx context.Context, tx *sql.Tx, inventoryID, customerID uint64) (uint64, error) {
    const q = `INSERT INTO rental (rental_date, inventory_id, customer_id, return_date, staff_id)
               VALUES (NOW(), ?, ?, NULL, ?)`
    res, err := tx.ExecContext(ctx, q, inventoryID, customerID, checkoutStaffID)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// ReturnedRental describes a rental that has just been closed by ReturnTx.
// It carries enough context for event publishing without a further query.
type ReturnedRental struct {
    RentalID    uint64
    InventoryID uint64
    CustomerID  uint64
    ReturnedAt  time.Time
}

// ReturnTx closes an open rental within the provided transaction.  The
// rental row is locked first; sql.ErrNoRows is returned when it does not
// exist and ErrAlreadyReturned when its return_date is already set.  The
// transition from open to returned happens at most once per rental.
func (r *RentalRepo) ReturnTx(ctx context.Context, tx *sql.Tx, rentalID uint64) (*ReturnedRental, error) {
    const q = `SELECT inventory_id, customer_id, return_date
               FROM rental
               WHERE rental_id = ?
               FOR UPDATE`
    var ret ReturnedRental
    var returned sql.NullTime
    err := tx.QueryRowContext(ctx, q, rentalID).Scan(&ret.InventoryID, &ret.CustomerID, &returned)
    if err != nil {
        return nil, err
    }
    if returned.Valid {
        return nil, ErrAlreadyReturned
    }
    if _, err := tx.ExecContext(ctx,
        `UPDATE rental SET return_date = NOW() WHERE rental_id = ?`, rentalID); err != nil {
        return nil, err
    }
    ret.RentalID = rentalID
    ret.ReturnedAt = time.Now().UTC()
    return &ret, nil
}
