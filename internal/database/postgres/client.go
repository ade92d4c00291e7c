package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evohome/evohome-cms/internal/repository"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/evohome/evohome-cms/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Querier is the subset of pgxpool.Pool the store uses
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// Client stores documents in the documents table (see migrations/)
type Client struct {
	db Querier
}

var (
	_ repository.DocumentStore = (*Client)(nil)
	_ Querier                  = (*pgxpool.Pool)(nil)
)

// NewClient wraps a connection pool created by pkg/db
func NewClient(db Querier) *Client {
	logger.Info("PostgreSQL document store initialized")
	return &Client{db: db}
}

// Name returns "postgres"
func (c *Client) Name() string { return "postgres" }

// Ping checks if the database connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.db.Ping(ctx)
}

// Read returns the document stored under collection/key
func (c *Client) Read(ctx context.Context, collection, key string) (jsonvalue.Value, bool, error) {
	start := time.Now()
	operation := "read"

	query := `SELECT data FROM documents WHERE collection = $1 AND key = $2`

	var raw []byte
	err := c.db.QueryRow(ctx, query, collection, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		c.recordMetrics(ctx, operation, "success", start)
		return jsonvalue.Value{}, false, nil
	}
	if err != nil {
		c.recordMetrics(ctx, operation, "error", start, zap.Error(err))
		return jsonvalue.Value{}, false, fmt.Errorf("failed to read %s/%s: %w", collection, key, err)
	}

	v, err := jsonvalue.Parse(raw)
	if err != nil {
		c.recordMetrics(ctx, operation, "error", start, zap.Error(err))
		return jsonvalue.Value{}, false, fmt.Errorf("failed to decode %s/%s: %w", collection, key, err)
	}
	c.recordMetrics(ctx, operation, "success", start)
	return v, true, nil
}

// Write upserts value under collection/key
func (c *Client) Write(ctx context.Context, collection, key string, value jsonvalue.Value) error {
	start := time.Now()
	operation := "write"

	raw, err := value.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, key, err)
	}

	query := `
		INSERT INTO documents (collection, key, data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (collection, key)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	if _, err := c.db.Exec(ctx, query, collection, key, raw); err != nil {
		c.recordMetrics(ctx, operation, "error", start, zap.Error(err))
		return fmt.Errorf("failed to write %s/%s: %w", collection, key, err)
	}
	c.recordMetrics(ctx, operation, "success", start)
	return nil
}

// Delete removes collection/key
func (c *Client) Delete(ctx context.Context, collection, key string) error {
	start := time.Now()
	operation := "delete"

	query := `DELETE FROM documents WHERE collection = $1 AND key = $2`
	if _, err := c.db.Exec(ctx, query, collection, key); err != nil {
		c.recordMetrics(ctx, operation, "error", start, zap.Error(err))
		return fmt.Errorf("failed to delete %s/%s: %w", collection, key, err)
	}
	c.recordMetrics(ctx, operation, "success", start)
	return nil
}

// ListKeys returns the keys of a collection in ascending byte order
func (c *Client) ListKeys(ctx context.Context, collection string) ([]string, error) {
	start := time.Now()
	operation := "list_keys"

	query := `SELECT key FROM documents WHERE collection = $1 ORDER BY key COLLATE "C"`

	rows, err := c.db.Query(ctx, query, collection)
	if err != nil {
		c.recordMetrics(ctx, operation, "error", start, zap.Error(err))
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			c.recordMetrics(ctx, operation, "error", start, zap.Error(err))
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		c.recordMetrics(ctx, operation, "error", start, zap.Error(err))
		return nil, fmt.Errorf("failed to iterate keys: %w", err)
	}

	c.recordMetrics(ctx, operation, "success", start)
	return keys, nil
}

// recordMetrics records document store operation metrics
func (c *Client) recordMetrics(ctx context.Context, operation, status string, start time.Time, fields ...zap.Field) {
	duration := metrics.MeasureDuration(start)
	metrics.StoreOperationDuration.WithLabelValues(c.Name(), operation, status).Observe(duration)
	metrics.StoreOperationTotal.WithLabelValues(c.Name(), operation, status).Inc()
	logger.LogAPICall(ctx, "postgres", operation, status, duration, fields...)
}
