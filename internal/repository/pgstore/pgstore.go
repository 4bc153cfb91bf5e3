// Package pgstore provides the PostgreSQL-backed implementation of the
// repository contracts. It connects through database/sql with the pgx
// driver and brings the schema up with goose migrations on startup.
//
// A failed query is always surfaced as a wrapped error so callers can
// tell a store outage apart from an ordinary not-found result.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/akozyrev-dev/ordersvc/internal/models"
	"github.com/akozyrev-dev/ordersvc/internal/repository"
)

// DB is a PostgreSQL-backed storage bundling the user and order
// repositories over a single connection pool.
type DB struct {
	database          *sql.DB
	connectionTimeout time.Duration
	users             *userStore
	orders            *orderStore
}

type initOptions struct {
	DBPreReset bool
}

// InitOption defines a functional option for configuring database initialization.
type InitOption func(*initOptions)

// WithDBPreReset enables dropping all public tables before migration.
// It is meant for test setups.
func WithDBPreReset(value bool) InitOption {
	return func(options *initOptions) {
		options.DBPreReset = value
	}
}

// New opens the connection pool, optionally resets the schema, runs the
// goose migrations, and returns a ready DB.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
	optionsProto ...InitOption,
) (*DB, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &DB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}
	result.users = &userStore{database: database}
	result.orders = &orderStore{database: database}

	if options.DBPreReset {
		if err := result.resetDB(ctx); err != nil {
			return nil, fmt.Errorf("pgstore.New: error while `result.resetDB()` calling: %w", err)
		}
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("pgstore.New: error while `goose.SetDialect()` calling: %w", err)
	}

	if err := goose.Up(result.database, migrationsDir); err != nil {
		return nil, fmt.Errorf("pgstore.New: error while `goose.Up()` calling: %w", err)
	}

	return result, nil
}

// Users returns the user repository backed by this database.
func (db *DB) Users() repository.Users {
	return db.users
}

// Orders returns the order repository backed by this database.
func (db *DB) Orders() repository.Orders {
	return db.orders
}

// Ping verifies connectivity within the configured timeout.
func (db *DB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.database.Close()
}

func (db *DB) resetDB(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			DO $$
			DECLARE
				r RECORD;
			BEGIN
				FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
					EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
				END LOOP;
			END $$;
		`,
	)
	if err != nil {
		return fmt.Errorf("pgstore.resetDB: error while `db.database.ExecContext()` calling: %w", err)
	}
	return nil
}

type userStore struct {
	database *sql.DB
}

func (s *userStore) Save(ctx context.Context, usr models.User) (models.User, error) {
	if usr.ID == 0 {
		row := s.database.QueryRowContext(
			ctx,
			`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`,
			usr.Name,
			usr.Email,
		)
		if err := row.Scan(&usr.ID); err != nil {
			return models.User{}, fmt.Errorf("insert user: %w", err)
		}
		return usr, nil
	}

	_, err := s.database.ExecContext(
		ctx,
		`
			INSERT INTO users (id, name, email) VALUES ($1, $2, $3)
				ON CONFLICT (id) DO UPDATE
				SET name = EXCLUDED.name, email = EXCLUDED.email
		`,
		usr.ID,
		usr.Name,
		usr.Email,
	)
	if err != nil {
		return models.User{}, fmt.Errorf("upsert user %d: %w", usr.ID, err)
	}

	return usr, nil
}

func (s *userStore) FindByID(ctx context.Context, id int64) (models.User, bool, error) {
	row := s.database.QueryRowContext(
		ctx,
		`SELECT id, name, email FROM users WHERE id = $1`,
		id,
	)

	var usr models.User
	if err := row.Scan(&usr.ID, &usr.Name, &usr.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, false, nil
		}
		return models.User{}, false, fmt.Errorf("select user %d: %w", id, err)
	}

	return usr, true, nil
}

func (s *userStore) FindAll(ctx context.Context) ([]models.User, error) {
	rows, err := s.database.QueryContext(
		ctx,
		`SELECT id, name, email FROM users ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	result := []models.User{}
	for rows.Next() {
		var usr models.User
		if err := rows.Scan(&usr.ID, &usr.Name, &usr.Email); err != nil {
			return nil, err
		}
		result = append(result, usr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *userStore) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result, err := s.database.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete user %d: %w", id, err)
	}

	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsDeleted > 0, nil
}

type orderStore struct {
	database *sql.DB
}

func (s *orderStore) Save(ctx context.Context, order models.Order) (models.Order, error) {
	if order.ID == 0 {
		row := s.database.QueryRowContext(
			ctx,
			`INSERT INTO orders (product, user_id) VALUES ($1, $2) RETURNING id`,
			order.Product,
			order.UserID,
		)
		if err := row.Scan(&order.ID); err != nil {
			return models.Order{}, fmt.Errorf("insert order: %w", err)
		}
		return order, nil
	}

	_, err := s.database.ExecContext(
		ctx,
		`
			INSERT INTO orders (id, product, user_id) VALUES ($1, $2, $3)
				ON CONFLICT (id) DO UPDATE
				SET product = EXCLUDED.product, user_id = EXCLUDED.user_id
		`,
		order.ID,
		order.Product,
		order.UserID,
	)
	if err != nil {
		return models.Order{}, fmt.Errorf("upsert order %d: %w", order.ID, err)
	}

	return order, nil
}

func (s *orderStore) FindByID(ctx context.Context, id int64) (models.Order, bool, error) {
	row := s.database.QueryRowContext(
		ctx,
		`SELECT id, product, user_id FROM orders WHERE id = $1`,
		id,
	)

	var order models.Order
	if err := row.Scan(&order.ID, &order.Product, &order.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Order{}, false, nil
		}
		return models.Order{}, false, fmt.Errorf("select order %d: %w", id, err)
	}

	return order, true, nil
}

func (s *orderStore) FindAll(ctx context.Context) ([]models.Order, error) {
	return s.selectOrders(ctx, `SELECT id, product, user_id FROM orders ORDER BY id`)
}

func (s *orderStore) FindByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.selectOrders(
		ctx,
		`SELECT id, product, user_id FROM orders WHERE user_id = $1 ORDER BY id`,
		userID,
	)
}

func (s *orderStore) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result, err := s.database.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete order %d: %w", id, err)
	}

	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsDeleted > 0, nil
}

func (s *orderStore) selectOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := s.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	result := []models.Order{}
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.ID, &order.Product, &order.UserID); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
