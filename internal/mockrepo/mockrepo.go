// Package mockrepo provides testify-based mock implementations of the
// repository contracts. Use them in router and service tests to simulate
// backing-store behavior, including store failures.
package mockrepo

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/akozyrev-dev/ordersvc/internal/models"
)

// UsersMock is a testify mock implementing repository.Users.
type UsersMock struct {
	mock.Mock
}

// Save mocks storing a user.
func (m *UsersMock) Save(ctx context.Context, usr models.User) (models.User, error) {
	args := m.Called(ctx, usr)
	return args.Get(0).(models.User), args.Error(1)
}

// FindByID mocks looking a user up by id.
func (m *UsersMock) FindByID(ctx context.Context, id int64) (models.User, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Bool(1), args.Error(2)
}

// FindAll mocks listing all users.
func (m *UsersMock) FindAll(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

// DeleteByID mocks removing a user.
func (m *UsersMock) DeleteByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// OrdersMock is a testify mock implementing repository.Orders.
type OrdersMock struct {
	mock.Mock
}

// Save mocks storing an order.
func (m *OrdersMock) Save(ctx context.Context, order models.Order) (models.Order, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(models.Order), args.Error(1)
}

// FindByID mocks looking an order up by id.
func (m *OrdersMock) FindByID(ctx context.Context, id int64) (models.Order, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Order), args.Bool(1), args.Error(2)
}

// FindAll mocks listing all orders.
func (m *OrdersMock) FindAll(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

// FindByUserID mocks the parent-id lookup.
func (m *OrdersMock) FindByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

// DeleteByID mocks removing an order.
func (m *OrdersMock) DeleteByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
