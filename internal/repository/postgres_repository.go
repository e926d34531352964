package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/entusanojuicio/storefront/internal/domain"
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(cred *Credentials) (*PostgresRepository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "storefront_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `INSERT INTO orders
		(id, items, customer_name, customer_email, customer_phone, pickup_time, notes, total, status, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11)`

	_, insertErr := r.db.ExecContext(ctx, query,
		order.ID,
		itemsJSON,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.PickupTime,
		order.Notes,
		order.Total,
		order.Status,
		order.IdempotencyKey,
		order.CreatedAt,
	)
	if insertErr != nil {
		return fmt.Errorf("failed to insert order: %w", insertErr)
	}
	return nil
}

const orderColumns = `id, items, customer_name, customer_email, customer_phone, pickup_time, notes,
	total, status, COALESCE(payment_method, ''), COALESCE(payment_session_id, ''),
	COALESCE(idempotency_key, ''), created_at`

func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (r *PostgresRepository) GetOrderByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE idempotency_key = $1`, orderColumns)
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIdempotencyKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order by idempotency key: %w", err)
	}
	return order, nil
}

func (r *PostgresRepository) GetOrderBySession(ctx context.Context, sessionID string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE payment_session_id = $1`, orderColumns)
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order by session: %w", err)
	}
	return order, nil
}

func (r *PostgresRepository) ListOrders(ctx context.Context, status string) ([]domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders`, orderColumns)
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT 100`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, errScan := scanOrder(rows)
		if errScan != nil {
			return nil, fmt.Errorf("failed to scan order: %w", errScan)
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *PostgresRepository) SetPaymentSession(ctx context.Context, orderID, sessionID, method string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_session_id = $1, payment_method = $2 WHERE id = $3`,
		sessionID, method, orderID)
	if err != nil {
		return fmt.Errorf("failed to set payment session: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, tx *domain.PaymentTransaction) error {
	query := `INSERT INTO payment_transactions
		(id, order_id, session_id, amount, currency, payment_method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.OrderID, tx.SessionID, tx.Amount, tx.Currency, tx.PaymentMethod, tx.Status, tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) MarkPaidBySession(ctx context.Context, sessionID string) (bool, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer dbTx.Rollback()

	result, err := dbTx.ExecContext(ctx,
		`UPDATE payment_transactions SET status = 'paid' WHERE session_id = $1 AND status <> 'paid'`,
		sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to mark transaction paid: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		// Already paid or unknown session; nothing to do.
		return false, nil
	}

	if _, err := dbTx.ExecContext(ctx,
		`UPDATE orders SET status = 'paid' WHERE payment_session_id = $1`, sessionID); err != nil {
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	if errCommit := dbTx.Commit(); errCommit != nil {
		return false, fmt.Errorf("failed to commit paid transition: %w", errCommit)
	}
	return true, nil
}

func (r *PostgresRepository) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'pending'),
		COUNT(*) FILTER (WHERE status = 'paid'),
		COALESCE(SUM(total) FILTER (WHERE status IN ('paid', 'completed')), 0)
		FROM orders`
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalOrders, &stats.PendingOrders, &stats.PaidOrders, &stats.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON []byte
	err := row.Scan(
		&order.ID,
		&itemsJSON,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.PickupTime,
		&order.Notes,
		&order.Total,
		&order.Status,
		&order.PaymentMethod,
		&order.PaymentSessionID,
		&order.IdempotencyKey,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if errUnmarshal := json.Unmarshal(itemsJSON, &order.Items); errUnmarshal != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", errUnmarshal)
	}
	return &order, nil
}
