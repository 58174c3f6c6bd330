package model

import "time"

// Customer represents a row in the `customer` table of the rental
// schema.  Customers belong to one of two stores and reference an
// address row created together with them.  The json tags match the
// column names so handler responses mirror the schema directly.
//
// Fields:
//  CustomerID – primary key identifier.
//  StoreID    – store the customer is registered at (1 or 2 by
//               convention; not enforced here).
//  FirstName  – given name.
//  LastName   – family name.
//  Email      – optional email address.
//  AddressID  – foreign key into the address table.
//  Active     – whether the account is active.
//  CreateDate – timestamp of registration.
type Customer struct {
    CustomerID uint64    `json:"customer_id"` // customer.customer_id
    StoreID    uint8     `json:"store_id"`    // customer.store_id
    FirstName  string    `json:"first_name"`  // customer.first_name
    LastName   string    `json:"last_name"`   // customer.last_name
    Email      *string   `json:"email"`       // customer.email (nullable)
    AddressID  uint64    `json:"-"`           // customer.address_id
    Active     bool      `json:"active"`      // customer.active
    CreateDate time.Time `json:"-"`           // customer.create_date
}

// Address represents a row in the `address` table.  An address is
// created in the same transaction as its customer; the geometry
// `location` column is always written as a zero point sentinel and is
// never read back.
//
// Fields:
//  AddressID  – primary key identifier.
//  Address    – first address line.
//  Address2   – optional second address line.
//  District   – district or state.
//  CityID     – foreign key into the city table; must pre-exist.
//  PostalCode – postal code.
//  Phone      – phone number.
type Address struct {
    AddressID  uint64  `json:"address_id"`  // address.address_id
    Address    string  `json:"address"`     // address.address
    Address2   *string `json:"address2"`    // address.address2 (nullable)
    District   string  `json:"district"`    // address.district
    CityID     uint64  `json:"city_id"`     // address.city_id
    PostalCode string  `json:"postal_code"` // address.postal_code
    Phone      string  `json:"phone"`       // address.phone
}
