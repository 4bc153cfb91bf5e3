// Package repository defines the persistence contracts shared by all
// storage backends. A repository owns identity assignment for one entity
// type: ids are unique, monotonically increasing within a repository
// instance, and never reused after deletion.
package repository

import (
	"context"

	"github.com/akozyrev-dev/ordersvc/internal/models"
)

// Entity constrains a repository's element type to values that expose
// and carry an integer identifier.
type Entity[T any] interface {
	GetID() int64
	WithID(id int64) T
}

// Repository is the generic keyed-store contract. "Absent" is reported
// through the bool result, never through the error: a non-nil error
// always means the backing store itself failed.
type Repository[T Entity[T]] interface {
	// Save assigns the next id when the entity has none and stores it;
	// an entity arriving with an id is overwritten in place.
	Save(ctx context.Context, entity T) (T, error)

	// FindByID returns the zero value and false when the id is unknown.
	FindByID(ctx context.Context, id int64) (T, bool, error)

	// FindAll returns all stored entities in a stable order.
	FindAll(ctx context.Context) ([]T, error)

	// DeleteByID reports whether an entity was actually removed;
	// deleting an unknown id is not an error.
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

// Users is the repository contract for users.
type Users = Repository[models.User]

// Orders extends the generic contract with the parent-id lookup used by
// the nested /orders/{userID}/users route.
type Orders interface {
	Repository[models.Order]

	FindByUserID(ctx context.Context, userID int64) ([]models.Order, error)
}
