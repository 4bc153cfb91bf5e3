// Package models defines the domain entities served by the REST API
// and the shared constants describing available storage backends.
package models

// User is a registered customer. The ID is assigned by the repository
// on first save; a zero ID marks a pending create.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email"`
}

// GetID returns the user's assigned identifier (0 for a pending create).
func (u User) GetID() int64 {
	return u.ID
}

// WithID returns a copy of the user carrying the given identifier.
func (u User) WithID(id int64) User {
	u.ID = id
	return u
}

// Order is a purchase belonging to a user. UserID references the owning
// user's id; referential integrity is a concern of the backing store.
type Order struct {
	ID      int64  `json:"id"`
	Product string `json:"product" validate:"required"`
	UserID  int64  `json:"userId"`
}

// GetID returns the order's assigned identifier (0 for a pending create).
func (o Order) GetID() int64 {
	return o.ID
}

// WithID returns a copy of the order carrying the given identifier.
func (o Order) WithID(id int64) Order {
	o.ID = id
	return o
}

const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)
