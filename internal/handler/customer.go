package handler

import (
    "context"      // context with cancellation for DB calls
    "database/sql" // sentinel errors returned from repository
    "errors"       // errors.Is comparisons
    "net/http"     // HTTP status codes
    "strconv"      // parsing path and query parameters
    "time"         // timeouts for DB calls

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/film-rental-store/internal/model"
    "github.com/iliyamo/film-rental-store/internal/repository"
)

// CustomerHandler bundles the repository needed for customer CRUD, search
// and the rental-history detail view.  Multi-statement operations run
// inside a transaction owned here: commit on success, rollback on any
// failure, so either all rows change or none do.
type CustomerHandler struct {
    Customers *repository.CustomerRepo
}

// NewCustomerHandler constructs a CustomerHandler and panics if the
// repository is nil.
func NewCustomerHandler(customers *repository.CustomerRepo) *CustomerHandler {
    if customers == nil {
        panic("nil repository passed to NewCustomerHandler")
    }
    return &CustomerHandler{Customers: customers}
}

// ----- DTOs -----

// customerReq carries the customer and address fields shared by the
// create and update endpoints.  email and address2 are optional.
type customerReq struct {
    FirstName  string  `json:"first_name"`
    LastName   string  `json:"last_name"`
    Email      *string `json:"email"`
    StoreID    uint8   `json:"store_id"`
    Address    string  `json:"address"`
    Address2   *string `json:"address2"`
    District   string  `json:"district"`
    CityID     uint64  `json:"city_id"`
    PostalCode string  `json:"postal_code"`
    Phone      string  `json:"phone"`
}

// complete reports whether every required field is present.
func (r customerReq) complete() bool {
    return r.FirstName != "" && r.LastName != "" && r.StoreID != 0 &&
        r.Address != "" && r.District != "" && r.CityID != 0 &&
        r.PostalCode != "" && r.Phone != ""
}

func (r customerReq) customer() *model.Customer {
    return &model.Customer{
        StoreID:   r.StoreID,
        FirstName: r.FirstName,
        LastName:  r.LastName,
        Email:     r.Email,
    }
}

func (r customerReq) address() *model.Address {
    return &model.Address{
        Address:    r.Address,
        Address2:   r.Address2,
        District:   r.District,
        CityID:     r.CityID,
        PostalCode: r.PostalCode,
        Phone:      r.Phone,
    }
}

// List handles GET /api/customers/.  It returns one page of five
// customers ordered by descending ID, optionally filtered by exact
// customer_id or partial first/last name.  has_next is derived from a
// COUNT query over the same predicate; a page before the first or past
// the last yields an empty list rather than an error.
func (h *CustomerHandler) List(c echo.Context) error {
    page := 1
    if p := c.QueryParam("page"); p != "" {
        if n, err := strconv.Atoi(p); err == nil {
            page = n
        }
    }

    q := repository.CustomerSearchQuery{Page: page}
    if cid := c.QueryParam("customer_id"); cid != "" {
        if n, err := strconv.ParseUint(cid, 10, 64); err == nil {
            q.CustomerID = n
        }
    }
    q.FirstName = c.QueryParam("first_name")
    q.LastName = c.QueryParam("last_name")

    if page < 1 {
        return c.JSON(http.StatusOK, echo.Map{
            "customers":    []model.Customer{},
            "has_next":     false,
            "current_page": page,
        })
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    customers, total, err := h.Customers.Search(ctx, q)
    if err != nil {
        c.Logger().Errorf("customer search failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    hasNext := int64(page*q.PageSize()) < total
    return c.JSON(http.StatusOK, echo.Map{
        "customers":    customers,
        "has_next":     hasNext,
        "current_page": page,
    })
}

// Create handles POST /api/customers/.  It inserts a new address row and
// a new customer row referencing it inside one transaction; on any
// failure both inserts are rolled back.
func (h *CustomerHandler) Create(c echo.Context) error {
    var req customerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if !req.complete() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing required fields"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    tx, err := h.Customers.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    cust := req.customer()
    if err := h.Customers.CreateTx(ctx, tx, cust, req.address()); err != nil {
        c.Logger().Errorf("customer create failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    return c.JSON(http.StatusCreated, echo.Map{
        "message":     "Customer added successfully",
        "customer_id": cust.CustomerID,
    })
}

// Update handles PUT /api/customers/:id.  Validation matches Create.  The
// customer row and its current address row are updated in place inside
// one transaction; when the customer has no resolvable address the
// address update is skipped silently.
func (h *CustomerHandler) Update(c echo.Context) error {
    customerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || customerID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
    }

    var req customerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if !req.complete() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing required fields"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    tx, err := h.Customers.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := h.Customers.UpdateTx(ctx, tx, customerID, req.customer(), req.address()); err != nil {
        c.Logger().Errorf("customer update failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    return c.JSON(http.StatusOK, echo.Map{"message": "Customer updated successfully"})
}

// Delete handles DELETE /api/customers/:id.  Payments, rentals and the
// customer row are removed in one transaction.  The existence check runs
// first, so a missing customer returns 404 with no dependent rows touched.
func (h *CustomerHandler) Delete(c echo.Context) error {
    customerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || customerID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    tx, err := h.Customers.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := h.Customers.DeleteTx(ctx, tx, customerID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
        }
        c.Logger().Errorf("customer delete failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    return c.JSON(http.StatusOK, echo.Map{"message": "Customer deleted successfully"})
}

// Get handles GET /api/customers/:id.  It returns the customer profile
// joined with its address plus the full rental history, newest first.
func (h *CustomerHandler) Get(c echo.Context) error {
    customerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || customerID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    det, err := h.Customers.GetDetail(ctx, customerID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
        }
        c.Logger().Errorf("customer detail failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, det)
}
