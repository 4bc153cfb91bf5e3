// Package filestore implements the repository contracts on top of plain
// in-memory maps with an optional JSON snapshot file. The snapshot is
// loaded on construction and written back on Close, which makes the
// store survive restarts without any external database.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/thoas/go-funk"

	"github.com/akozyrev-dev/ordersvc/internal/models"
	"github.com/akozyrev-dev/ordersvc/internal/repository"
)

type cache[T any] struct {
	Items  map[int64]T `json:"items"`
	Order  []int64     `json:"order"`
	LastID int64       `json:"lastId"`
}

type store[T repository.Entity[T]] struct {
	mu    sync.Mutex
	cache cache[T]
}

func newStore[T repository.Entity[T]]() *store[T] {
	return &store[T]{
		cache: cache[T]{
			Items: map[int64]T{},
			Order: []int64{},
		},
	}
}

func (s *store[T]) Save(_ context.Context, entity T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := entity.GetID()
	if id == 0 {
		s.cache.LastID++
		id = s.cache.LastID
		entity = entity.WithID(id)
	} else if id > s.cache.LastID {
		// Keep the counter ahead of every id seen so far, so an
		// overwrite never lets a later assignment reuse an id.
		s.cache.LastID = id
	}

	if _, exists := s.cache.Items[id]; !exists {
		s.cache.Order = append(s.cache.Order, id)
	}
	s.cache.Items[id] = entity

	return entity, nil
}

func (s *store[T]) FindByID(_ context.Context, id int64) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entity, found := s.cache.Items[id]
	return entity, found, nil
}

func (s *store[T]) FindAll(_ context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]T, 0, len(s.cache.Order))
	for _, id := range s.cache.Order {
		result = append(result, s.cache.Items[id])
	}

	return result, nil
}

func (s *store[T]) DeleteByID(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.cache.Items[id]; !found {
		return false, nil
	}

	delete(s.cache.Items, id)
	for i, storedID := range s.cache.Order {
		if storedID == id {
			s.cache.Order = append(s.cache.Order[:i], s.cache.Order[i+1:]...)
			break
		}
	}

	return true, nil
}

type ordersStore struct {
	*store[models.Order]
}

func (s *ordersStore) FindByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return funk.Filter(all, func(order models.Order) bool {
		return order.UserID == userID
	}).([]models.Order), nil
}

type document struct {
	Users  cache[models.User]  `json:"users"`
	Orders cache[models.Order] `json:"orders"`
}

// DB bundles the per-entity stores behind one snapshot file.
type DB struct {
	fileName string
	users    *store[models.User]
	orders   *ordersStore
}

// NewInMemory returns a DB with no backing file. Close becomes a no-op
// flush; everything lives and dies with the process.
func NewInMemory() *DB {
	return &DB{
		users:  newStore[models.User](),
		orders: &ordersStore{store: newStore[models.Order]()},
	}
}

// New loads the snapshot from fileName, initializing an empty one when
// the file does not exist yet.
func New(fileName string) (*DB, error) {
	db := NewInMemory()
	db.fileName = fileName

	err := parseJSONFile(fileName, db)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := initDBFile(fileName); err != nil {
			return nil, err
		}
		if err := parseJSONFile(fileName, db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Users returns the user repository backed by this DB.
func (db *DB) Users() repository.Users {
	return db.users
}

// Orders returns the order repository backed by this DB.
func (db *DB) Orders() repository.Orders {
	return db.orders
}

// Ping reports the store as always reachable.
func (db *DB) Ping(_ context.Context) error {
	return nil
}

// Close flushes the snapshot back to disk when a file is configured.
func (db *DB) Close() error {
	if db.fileName == "" {
		return nil
	}

	return writeToJSONFile(db.fileName, db.snapshot())
}

func (db *DB) snapshot() document {
	db.users.mu.Lock()
	defer db.users.mu.Unlock()
	db.orders.mu.Lock()
	defer db.orders.mu.Unlock()

	return document{
		Users:  db.users.cache,
		Orders: db.orders.cache,
	}
}

func (db *DB) restore(doc document) {
	if doc.Users.Items != nil {
		db.users.cache = doc.Users
	}
	if doc.Orders.Items != nil {
		db.orders.cache = doc.Orders
	}
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, `{
	"users": {},
	"orders": {}
}`)
	if err != nil {
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, doc document) error {
	jsonData, err := json.MarshalIndent(doc, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(jsonData); err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	return nil
}

func parseJSONFile(fileName string, db *DB) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	var doc document
	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		return err
	}
	db.restore(doc)

	return nil
}
