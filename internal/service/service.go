// Package service sits between the HTTP dispatcher and the repositories.
// It owns the not-found policy: a missing entity comes back as
// ErrNotFound, while a failing store keeps its own wrapped error, so the
// two are never conflated below the HTTP edge.
//
// The service layer is also the place to hang field validation when the
// API grows stricter rules than the codec enforces.
package service

import (
	"context"
	"errors"

	"github.com/akozyrev-dev/ordersvc/internal/models"
	"github.com/akozyrev-dev/ordersvc/internal/repository"
)

// ErrNotFound reports that no entity exists under the requested id.
var ErrNotFound = errors.New("resource not found")

// Resource wraps one entity kind's repository with the operations the
// dispatcher needs.
type Resource[T repository.Entity[T]] struct {
	repo repository.Repository[T]
}

// NewResource returns a service over the given repository.
func NewResource[T repository.Entity[T]](repo repository.Repository[T]) *Resource[T] {
	return &Resource[T]{repo: repo}
}

// Create stores a pending entity. Any id the caller put on it is
// discarded; the repository assigns the real one.
func (s *Resource[T]) Create(ctx context.Context, entity T) (T, error) {
	return s.repo.Save(ctx, entity.WithID(0))
}

// GetByID returns the entity under id, or ErrNotFound.
func (s *Resource[T]) GetByID(ctx context.Context, id int64) (T, error) {
	entity, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return entity, err
	}
	if !found {
		return entity, ErrNotFound
	}

	return entity, nil
}

// GetAll returns every stored entity.
func (s *Resource[T]) GetAll(ctx context.Context) ([]T, error) {
	return s.repo.FindAll(ctx)
}

// Update overwrites the entity under its id. Updating an unknown id is
// ErrNotFound: an update must never silently create.
func (s *Resource[T]) Update(ctx context.Context, entity T) (T, error) {
	var zero T

	_, found, err := s.repo.FindByID(ctx, entity.GetID())
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, ErrNotFound
	}

	return s.repo.Save(ctx, entity)
}

// Delete removes the entity under id, or reports ErrNotFound.
func (s *Resource[T]) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	return nil
}

// Users is the service over the user repository.
type Users struct {
	*Resource[models.User]
}

// NewUsers returns the user service.
func NewUsers(repo repository.Users) *Users {
	return &Users{Resource: NewResource[models.User](repo)}
}

// Orders adds the parent-id lookup on top of the generic operations.
type Orders struct {
	*Resource[models.Order]

	repo repository.Orders
}

// NewOrders returns the order service.
func NewOrders(repo repository.Orders) *Orders {
	return &Orders{
		Resource: NewResource[models.Order](repo),
		repo:     repo,
	}
}

// GetByUserID lists the orders belonging to the given user. An unknown
// user simply yields an empty list.
func (s *Orders) GetByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.repo.FindByUserID(ctx, userID)
}
