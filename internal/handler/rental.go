package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/film-rental-store/internal/queue"
    "github.com/iliyamo/film-rental-store/internal/repository"
    queue_publisher "github.com/iliyamo/film-rental-store/internal/service"
)

// RentalHandler bundles the repositories needed for film checkout and
// return.  Both operations are check-then-act sequences, so each runs
// inside a single transaction with a locking read; two concurrent
// checkouts of the last available copy cannot both succeed.
type RentalHandler struct {
    Rentals *repository.RentalRepo
    Films   *repository.FilmRepo
}

// NewRentalHandler constructs a RentalHandler and panics on nil deps.
func NewRentalHandler(rentals *repository.RentalRepo, films *repository.FilmRepo) *RentalHandler {
    if rentals == nil || films == nil {
        panic("nil repository passed to NewRentalHandler")
    }
    return &RentalHandler{Rentals: rentals, Films: films}
}

type rentReq struct {
    CustomerID uint64 `json:"customer_id"`
    FilmID     uint64 `json:"film_id"`
}

// Rent handles POST /rentals/rent.  Inside one transaction it locks an
// available inventory copy of the requested film and inserts an open
// rental row for it.  When every copy is out it returns 400.  A
// rental.created event is published after the commit.
func (h *RentalHandler) Rent(c echo.Context) error {
    var req rentReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.CustomerID == 0 || req.FilmID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing customer_id or film_id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    tx, err := h.Rentals.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    inventoryID, err := h.Rentals.FindAvailableCopyTx(ctx, tx, req.FilmID)
    if err != nil {
        if errors.Is(err, repository.ErrNoCopies) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "no available copies for this film"})
        }
        c.Logger().Errorf("availability check failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    rentalID, err := h.Rentals.CreateTx(ctx, tx, inventoryID, req.CustomerID)
    if err != nil {
        c.Logger().Errorf("rental insert failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    // Best-effort event publish after commit; checkout success does not
    // depend on the broker being reachable.
    title, _ := h.Films.TitleByID(ctx, req.FilmID)
    go func() {
        _ = queue_publisher.PublishRentalEvent(context.Background(), queue.RentalEvent{
            Event:       queue.EventRentalCreated,
            RentalID:    rentalID,
            CustomerID:  req.CustomerID,
            FilmID:      req.FilmID,
            FilmTitle:   title,
            InventoryID: inventoryID,
            OccurredAt:  time.Now().UTC().Format(time.RFC3339),
        })
    }()

    return c.JSON(http.StatusCreated, echo.Map{
        "message":      "Rental successful",
        "inventory_id": inventoryID,
    })
}

// Return handles PUT /api/customers/return_rental/:rental_id.  The rental
// row is locked, then its return_date is set exactly once: a missing
// rental yields 404 and an already-returned one yields 400 with the
// stored return_date untouched.
func (h *RentalHandler) Return(c echo.Context) error {
    rentalID, err := strconv.ParseUint(c.Param("rental_id"), 10, 64)
    if err != nil || rentalID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rental id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    tx, err := h.Rentals.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    ret, err := h.Rentals.ReturnTx(ctx, tx, rentalID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "rental not found"})
        }
        if errors.Is(err, repository.ErrAlreadyReturned) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "rental already returned"})
        }
        c.Logger().Errorf("rental return failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    go func() {
        _ = queue_publisher.PublishRentalEvent(context.Background(), queue.RentalEvent{
            Event:       queue.EventRentalReturned,
            RentalID:    ret.RentalID,
            CustomerID:  ret.CustomerID,
            InventoryID: ret.InventoryID,
            OccurredAt:  ret.ReturnedAt.Format(time.RFC3339),
        })
    }()

    return c.JSON(http.StatusOK, echo.Map{"message": "Rental returned successfully"})
}
