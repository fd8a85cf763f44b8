package output

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const insertTimeout = 5 * time.Second

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresOutput inserts each event as a row of the table mapped from its
// topic. Event keys become column names.
type PostgresOutput struct {
	db     execer
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresOutput(ctx context.Context, url string, logger *zap.Logger) (*PostgresOutput, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	out := NewPostgresOutputWithDB(pool, logger)
	out.pool = pool
	return out, nil
}

func NewPostgresOutputWithDB(db execer, logger *zap.Logger) *PostgresOutput {
	return &PostgresOutput{db: db, logger: logger}
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}

	table := topicToTable(topic)
	cols, vals, placeholders, err := buildInsertComponents(event)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{table}.Sanitize(), cols, placeholders)

	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()

	if _, err := p.db.Exec(ctx, query, vals...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (p *PostgresOutput) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

var topicTables = map[string]string{
	"order_events":      "fact_order",
	"cart_events":       "fact_cart",
	"restaurant_events": "dim_restaurant",
	"menu_item_events":  "dim_menu_item",
}

func topicToTable(topic string) string {
	if table, ok := topicTables[topic]; ok {
		return table
	}
	return "fact_" + strings.TrimSuffix(topic, "_events")
}

// buildInsertComponents orders columns by key so the same event shape always
// produces the same statement. Nested values are stored as JSON text.
func buildInsertComponents(event map[string]interface{}) (string, []interface{}, string, error) {
	keys := make([]string, 0, len(event))
	for k := range event {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	columns := make([]string, 0, len(keys))
	values := make([]interface{}, 0, len(keys))
	placeholders := make([]string, 0, len(keys))

	for i, key := range keys {
		val := event[key]
		switch v := val.(type) {
		case map[string]interface{}, []interface{}:
			b, err := json.Marshal(v)
			if err != nil {
				return "", nil, "", fmt.Errorf("marshal %s: %w", key, err)
			}
			val = string(b)
		}

		columns = append(columns, pgx.Identifier{key}.Sanitize())
		values = append(values, val)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
	}

	return strings.Join(columns, ", "), values, strings.Join(placeholders, ", "), nil
}
