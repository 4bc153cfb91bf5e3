package filestore

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akozyrev-dev/ordersvc/internal/models"
)

const testDBFileName = "db_test.json"

func TestSaveAssignsMonotonicIDs(t *testing.T) {
	db := NewInMemory()
	users := db.Users()

	first, err := users.Save(context.Background(), models.User{Name: "Ada", Email: "ada@x.io"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)

	second, err := users.Save(context.Background(), models.User{Name: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	deleted, err := users.DeleteByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// An id is never reused, even after deletion.
	third, err := users.Save(context.Background(), models.User{Name: "Edsger"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.ID)
}

func TestSaveOverwritesUnderExistingID(t *testing.T) {
	db := NewInMemory()
	users := db.Users()

	created, err := users.Save(context.Background(), models.User{Name: "Ada"})
	require.NoError(t, err)

	updated, err := users.Save(context.Background(), created.WithID(created.ID))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	all, err := users.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFindByIDUnknown(t *testing.T) {
	db := NewInMemory()

	usr, found, err := db.Users().FindByID(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, models.User{}, usr)
}

func TestDeleteByIDIsIdempotent(t *testing.T) {
	db := NewInMemory()
	users := db.Users()

	created, err := users.Save(context.Background(), models.User{Name: "Ada"})
	require.NoError(t, err)

	deleted, err := users.DeleteByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = users.DeleteByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestFindAllKeepsInsertionOrder(t *testing.T) {
	db := NewInMemory()
	orders := db.Orders()

	for _, product := range []string{"Widget", "Gadget", "Sprocket"} {
		_, err := orders.Save(context.Background(), models.Order{Product: product, UserID: 1})
		require.NoError(t, err)
	}

	all, err := orders.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Widget", all[0].Product)
	assert.Equal(t, "Gadget", all[1].Product)
	assert.Equal(t, "Sprocket", all[2].Product)
}

func TestFindByUserID(t *testing.T) {
	db := NewInMemory()
	orders := db.Orders()

	_, err := orders.Save(context.Background(), models.Order{Product: "Widget", UserID: 1})
	require.NoError(t, err)
	_, err = orders.Save(context.Background(), models.Order{Product: "Gadget", UserID: 2})
	require.NoError(t, err)
	_, err = orders.Save(context.Background(), models.Order{Product: "Sprocket", UserID: 1})
	require.NoError(t, err)

	filtered, err := db.Orders().FindByUserID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, order := range filtered {
		assert.Equal(t, int64(1), order.UserID)
	}

	empty, err := db.Orders().FindByUserID(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestConcurrentSavesGetUniqueIDs(t *testing.T) {
	db := NewInMemory()
	users := db.Users()

	const goroutines = 50

	var wg sync.WaitGroup
	ids := make(chan int64, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			usr, err := users.Save(context.Background(), models.User{Name: "concurrent"})
			assert.NoError(t, err)
			ids <- usr.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "id %d assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines)
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	defer func() {
		err := os.Remove(testDBFileName)
		require.NoError(t, err)
	}()

	db, err := New(testDBFileName)
	require.NoError(t, err)

	savedUser, err := db.Users().Save(context.Background(), models.User{Name: "Ada", Email: "ada@x.io"})
	require.NoError(t, err)
	savedOrder, err := db.Orders().Save(context.Background(), models.Order{Product: "Widget", UserID: savedUser.ID})
	require.NoError(t, err)

	require.NoError(t, db.Close())

	reopened, err := New(testDBFileName)
	require.NoError(t, err)

	usr, found, err := reopened.Users().FindByID(context.Background(), savedUser.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, savedUser, usr)

	order, found, err := reopened.Orders().FindByID(context.Background(), savedOrder.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, savedOrder, order)

	// The id counter is part of the snapshot too.
	next, err := reopened.Users().Save(context.Background(), models.User{Name: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, savedUser.ID+1, next.ID)

	require.NoError(t, reopened.Close())
}
