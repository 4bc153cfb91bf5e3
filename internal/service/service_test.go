package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/akozyrev-dev/ordersvc/internal/mockrepo"
	"github.com/akozyrev-dev/ordersvc/internal/models"
	"github.com/akozyrev-dev/ordersvc/internal/repository/memstore"
)

func newUsersService(t *testing.T) *Users {
	t.Helper()

	db, err := memstore.New()
	require.NoError(t, err)

	return NewUsers(db.Users())
}

func TestCreateStripsClientSuppliedID(t *testing.T) {
	users := newUsersService(t)

	created, err := users.Create(context.Background(), models.User{ID: 99, Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
}

func TestGetByIDNotFound(t *testing.T) {
	users := newUsersService(t)

	_, err := users.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRefusesToCreate(t *testing.T) {
	users := newUsersService(t)

	_, err := users.Update(context.Background(), models.User{ID: 3, Name: "Nobody"})
	assert.ErrorIs(t, err, ErrNotFound)

	// Nothing may have been created by the failed update.
	all, err := users.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateOverwritesExisting(t *testing.T) {
	users := newUsersService(t)

	created, err := users.Create(context.Background(), models.User{Name: "Ada"})
	require.NoError(t, err)

	updated, err := users.Update(context.Background(), models.User{ID: created.ID, Name: "Ada L.", Email: "ada@x.io"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	fetched, err := users.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", fetched.Name)
}

func TestDeleteTwice(t *testing.T) {
	users := newUsersService(t)

	created, err := users.Create(context.Background(), models.User{Name: "Ada"})
	require.NoError(t, err)

	require.NoError(t, users.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, users.Delete(context.Background(), created.ID), ErrNotFound)
}

func TestOrdersGetByUserID(t *testing.T) {
	db, err := memstore.New()
	require.NoError(t, err)
	orders := NewOrders(db.Orders())

	_, err = orders.Create(context.Background(), models.Order{Product: "Widget", UserID: 1})
	require.NoError(t, err)
	_, err = orders.Create(context.Background(), models.Order{Product: "Gadget", UserID: 2})
	require.NoError(t, err)

	byUser, err := orders.GetByUserID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "Widget", byUser[0].Product)
}

func TestStoreFailureIsNotConflatedWithNotFound(t *testing.T) {
	storeErr := errors.New("connection refused")

	repo := new(mockrepo.UsersMock)
	repo.On("FindByID", mock.Anything, int64(1)).Return(models.User{}, false, storeErr)
	repo.On("DeleteByID", mock.Anything, int64(1)).Return(false, storeErr)

	users := NewUsers(repo)

	_, err := users.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrNotFound)

	err = users.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrNotFound)
}
