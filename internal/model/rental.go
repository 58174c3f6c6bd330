package model

import "time"

// Rental represents a row in the `rental` table.  A rental with a nil
// ReturnDate is an open rental: the referenced inventory copy is
// currently checked out.  ReturnDate transitions once from NULL to a
// timestamp and is never reverted.
//
// Fields:
//  RentalID    – primary key identifier.
//  RentalDate  – when the copy was checked out.
//  InventoryID – the physical copy being rented.
//  CustomerID  – the renting customer.
//  ReturnDate  – when the copy came back; nil while still out.
//  StaffID     – staff member who processed the checkout.
type Rental struct {
    RentalID    uint64     `json:"rental_id"`    // rental.rental_id
    RentalDate  time.Time  `json:"rental_date"`  // rental.rental_date
    InventoryID uint64     `json:"inventory_id"` // rental.inventory_id
    CustomerID  uint64     `json:"customer_id"`  // rental.customer_id
    ReturnDate  *time.Time `json:"return_date"`  // rental.return_date (nullable)
    StaffID     uint8      `json:"staff_id"`     // rental.staff_id
}

// Inventory represents one rentable copy of a film.  A copy is
// available iff no open rental references it.
type Inventory struct {
    InventoryID uint64 `json:"inventory_id"` // inventory.inventory_id
    FilmID      uint64 `json:"film_id"`      // inventory.film_id
}
