// Package analytics writes order events to ClickHouse for reporting.
package analytics

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/imrishuroy/trynex-storefront/internal/config"
	"github.com/imrishuroy/trynex-storefront/internal/events"
)

type Client struct {
	conn     driver.Conn
	database string
}

func NewClient(cfg config.ClickHouseConfig) (*Client, error) {
	opts := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		DialTimeout:  10 * time.Second,
	}
	// 8443 is the TLS native port on ClickHouse Cloud
	if cfg.Port == 8443 {
		opts.TLS = &tls.Config{}
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &Client{conn: conn, database: cfg.Database}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Migrate creates the order_events table when missing.
func (c *Client) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.order_events (
			event_id        String,
			event_type      LowCardinality(String),
			order_id        UInt64,
			order_code      String,
			status          LowCardinality(String),
			previous_status LowCardinality(String),
			promo_code      String,
			order_method    LowCardinality(String),
			total           Decimal(12, 2),
			date_key        String,
			event_time      DateTime64(3, 'UTC')
		) ENGINE = ReplacingMergeTree
		ORDER BY (order_code, event_id)
	`, c.database)
	if err := c.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create order_events: %w", err)
	}
	return nil
}

// InsertOrderEvent appends one event row. Redelivered events share an
// event_id and collapse on merge.
func (c *Client) InsertOrderEvent(ctx context.Context, evt events.OrderEvent) error {
	query := fmt.Sprintf(`
		INSERT INTO %s.order_events (
			event_id, event_type, order_id, order_code, status, previous_status,
			promo_code, order_method, total, date_key, event_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.database)
	if err := c.conn.Exec(ctx, query, orderEventArgs(evt)...); err != nil {
		return fmt.Errorf("insert order event %s: %w", evt.EventID, err)
	}
	return nil
}

// orderEventArgs lays out the insert parameters in column order.
func orderEventArgs(evt events.OrderEvent) []interface{} {
	return []interface{}{
		evt.EventID,
		evt.Type,
		uint64(evt.OrderID),
		evt.OrderCode,
		evt.Status,
		evt.PreviousStatus,
		evt.PromoCode,
		evt.OrderMethod,
		evt.Total,
		evt.OccurredAt.UTC().Format("20060102"),
		evt.OccurredAt.UTC(),
	}
}
