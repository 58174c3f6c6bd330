package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/iliyamo/film-rental-store/internal/model"
)

// customerPageSize is the fixed page size for customer listings.
const customerPageSize = 5

// CustomerRepo provides data access to the customer and address tables.
// Multi-statement operations (create, update, delete) expose Tx variants so
// that handlers can run them inside a single transaction together with
// related statements.  All timestamps are assumed to be stored in UTC.
type CustomerRepo struct {
    db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple statements.  Use this method to obtain a
// *sql.DB when you need fine-grained transaction control.
func (r *CustomerRepo) DB() *sql.DB { return r.db }

// CustomerSearchQuery defines the optional filters for Search.  A zero
// CustomerID means no exact-ID filter; empty name strings mean no partial
// match on that column.
type CustomerSearchQuery struct {
    CustomerID uint64
    FirstName  string
    LastName   string
    Page       int
}

// PageSize returns the fixed page size used by Search.
func (CustomerSearchQuery) PageSize() int { return customerPageSize }

// Search returns one page of customers matching the query, newest first,
// along with the total number of matching rows.  The total is computed by
// re-running the same predicate as a COUNT query so that callers can derive
// has_next as page*pageSize < total.  A page beyond the last one simply
// yields an empty slice.
func (r *CustomerRepo) Search(ctx context.Context, q CustomerSearchQuery) ([]model.Customer, int64, error) {
    where := []string{}
    args := []any{}

    if q.CustomerID != 0 {
        where = append(where, "customer_id = ?")
        args = append(args, q.CustomerID)
    }
    if q.FirstName != "" {
        where = append(where, "first_name LIKE ?")
        args = append(args, "%"+q.FirstName+"%")
    }
    if q.LastName != "" {
        where = append(where, "last_name LIKE ?")
        args = append(args, "%"+q.LastName+"%")
    }

    cond := "1=1"
    if len(where) > 0 {
        cond = strings.Join(where, " AND ")
    }

    var total int64
    countSQL := `SELECT COUNT(*) FROM customer WHERE ` + cond
    if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    limit := customerPageSize
    offset := (q.Page - 1) * customerPageSize

    dataSQL := `SELECT customer_id, store_id, first_name, last_name, email, active
		FROM customer
		WHERE ` + cond + `
		ORDER BY customer_id DESC
		LIMIT ? OFFSET ?`

    argsData := append(append([]any{}, args...), limit, offset)

    rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    out := make([]model.Customer, 0, limit)
    for rows.Next() {
        var c model.Customer
        var email sql.NullString
        if err := rows.Scan(&c.CustomerID, &c.StoreID, &c.FirstName, &c.LastName, &email, &c.Active); err != nil {
            return nil, 0, err
        }
        if email.Valid {
            e := email.String
            c.Email = &e
        }
        out = append(out, c)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}

// CreateTx inserts a new address and a new customer referencing it within
// the scope of an existing transaction.  The generated identifiers are
// populated on the provided records.  The caller must commit or roll back
// the transaction; either both rows become durable or neither does.  The
// address geometry column is written as a zero point sentinel because the
// schema requires it but this layer never reads it.
func (r *CustomerRepo) CreateTx(ctx context.Context, tx *sql.Tx, cust *model.Customer, addr *model.Address) error {
    const addrQ = `INSERT INTO address (address, address2, district, city_id, postal_code, phone, location)
                   VALUES (?, ?, ?, ?, ?, ?, ST_GeomFromText('POINT(0 0)'))`
    res, err := tx.ExecContext(ctx, addrQ,
        addr.Address, addr.Address2, addr.District, addr.CityID, addr.PostalCode, addr.Phone)
    if err != nil {
        return err
    }
    addrID, err := res.LastInsertId()
    if err != nil {
        return err
    }
    addr.AddressID = uint64(addrID)

    const custQ = `INSERT INTO customer (store_id, first_name, last_name, email, address_id, active, create_date)
                   VALUES (?, ?, ?, ?, ?, 1, NOW())`
    res, err = tx.ExecContext(ctx, custQ,
        cust.StoreID, cust.FirstName, cust.LastName, cust.Email, addr.AddressID)
    if err != nil {
        return err
    }
    custID, err := res.LastInsertId()
    if err != nil {
        return err
    }
    cust.CustomerID = uint64(custID)
    cust.AddressID = addr.AddressID
    return nil
}

// UpdateTx updates a customer row and its current address in place within
// the provided transaction.  The address row is resolved through the
// customer's address_id; when the customer (and therefore its address_id)
// cannot be resolved, the address update is skipped without error.  A new
// address is never created here.
func (r *CustomerRepo) UpdateTx(ctx context.Context, tx *sql.Tx, customerID uint64, cust *model.Customer, addr *model.Address) error {
    const custQ = `UPDATE customer SET store_id = ?, first_name = ?, last_name = ?, email = ?
                   WHERE customer_id = ?`
    if _, err := tx.ExecContext(ctx, custQ,
        cust.StoreID, cust.FirstName, cust.LastName, cust.Email, customerID); err != nil {
        return err
    }

    var addressID uint64
    err := tx.QueryRowContext(ctx,
        `SELECT address_id FROM customer WHERE customer_id = ?`, customerID).Scan(&addressID)
    if err == sql.ErrNoRows || (err == nil && addressID == 0) {
        // no resolvable address; leave the address table untouched
        return nil
    }
    if err != nil {
        return err
    }

    const addrQ = `UPDATE address SET address = ?, address2 = ?, district = ?, city_id = ?, postal_code = ?, phone = ?
                   WHERE address_id = ?`
    _, err = tx.ExecContext(ctx, addrQ,
        addr.Address, addr.Address2, addr.District, addr.CityID, addr.PostalCode, addr.Phone, addressID)
    return err
}

// DeleteTx removes a customer together with its dependent payment and
// rental rows.  The customer row is locked and checked first so that a
// missing customer aborts the transaction before any dependent row is
// touched; sql.ErrNoRows is returned in that case.  Deletion order is
// payments, rentals, customer (the schema has no ON DELETE CASCADE).
func (r *CustomerRepo) DeleteTx(ctx context.Context, tx *sql.Tx, customerID uint64) error {
    var id uint64
    err := tx.QueryRowContext(ctx,
        `SELECT customer_id FROM customer WHERE customer_id = ? FOR UPDATE`, customerID).Scan(&id)
    if err != nil {
        return err
    }
    if _, err := tx.ExecContext(ctx, `DELETE FROM payment WHERE customer_id = ?`, customerID); err != nil {
        return err
    }
    if _, err := tx.ExecContext(ctx, `DELETE FROM rental WHERE customer_id = ?`, customerID); err != nil {
        return err
    }
    _, err = tx.ExecContext(ctx, `DELETE FROM customer WHERE customer_id = ?`, customerID)
    return err
}

// CustomerDetail is the full profile returned for a single customer: the
// customer row joined with its address plus the complete rental history.
type CustomerDetail struct {
    CustomerID    uint64              `json:"customer_id"`
    StoreID       uint8               `json:"store_id"`
    FirstName     string              `json:"first_name"`
    LastName      string              `json:"last_name"`
    Email         *string             `json:"email"`
    Active        bool                `json:"active"`
    Address       string              `json:"address"`
    Address2      *string             `json:"address2,omitempty"`
    District      string              `json:"district"`
    PostalCode    string              `json:"postal_code"`
    Phone         string              `json:"phone"`
    RentalHistory []RentalHistoryItem `json:"rental_history"`
}

// RentalHistoryItem is one entry of a customer's rental history.
type RentalHistoryItem struct {
    RentalID   uint64     `json:"rental_id"`
    FilmID     uint64     `json:"film_id"`
    Title      string     `json:"title"`
    RentalDate time.Time  `json:"rental_date"`
    ReturnDate *time.Time `json:"return_date"`
}

// GetDetail loads a customer's profile joined with its address and the
// customer's rental history ordered by most recent rental first.  It
// returns sql.ErrNoRows when the customer does not exist.
func (r *CustomerRepo) GetDetail(ctx context.Context, customerID uint64) (*CustomerDetail, error) {
    const q = `SELECT c.customer_id, c.store_id, c.first_name, c.last_name, c.email, c.active,
                      a.address, a.address2, a.district, a.postal_code, a.phone
               FROM customer c
               JOIN address a ON a.address_id = c.address_id
               WHERE c.customer_id = ?`
    var det CustomerDetail
    var email, address2 sql.NullString
    err := r.db.QueryRowContext(ctx, q, customerID).Scan(
        &det.CustomerID, &det.StoreID, &det.FirstName, &det.LastName, &email, &det.Active,
        &det.Address, &address2, &det.District, &det.PostalCode, &det.Phone,
    )
    if err != nil {
        return nil, err
    }
    if email.Valid {
        e := email.String
        det.Email = &e
    }
    if address2.Valid {
        a := address2.String
        det.Address2 = &a
    }

    det.RentalHistory = []RentalHistoryItem{}
    const histQ = `SELECT r.rental_id, f.film_id, f.title, r.rental_date, r.return_date
                   FROM rental r
                   JOIN inventory i ON i.inventory_id = r.inventory_id
                   JOIN film f ON f.film_id = i.film_id
                   WHERE r.customer_id = ?
                   ORDER BY r.rental_date DESC`
    rows, err := r.db.QueryContext(ctx, histQ, customerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var it RentalHistoryItem
        var returned sql.NullTime
        if err := rows.Scan(&it.RentalID, &it.FilmID, &it.Title, &it.RentalDate, &returned); err != nil {
            return nil, err
        }
        if returned.Valid {
            t := returned.Time
            it.ReturnDate = &t
        }
        det.RentalHistory = append(det.RentalHistory, it)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return &det, nil
}
