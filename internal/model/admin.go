package model

import "time"

// AdminUser mirrors the `admin_users` table, which lives outside the
// rental schema.  Only the bcrypt hash of the password is stored; the
// hash is never serialized into API responses.
type AdminUser struct {
    ID           uint64    `json:"id"`         // admin_users.id
    Username     string    `json:"username"`   // admin_users.username
    PasswordHash string    `json:"-"`          // admin_users.password_hash
    CreatedAt    time.Time `json:"created_at"` // admin_users.created_at
}
