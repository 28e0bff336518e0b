package rowstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/warungpos/apiserver/config"
	_ "github.com/lib/pq"
)

const (
	defaultDBDriver     = "postgres"
	defaultPingTimeout  = 5 * time.Second
	defaultConnMaxIdle  = 2 * time.Minute
	defaultConnMaxLife  = 30 * time.Minute
	defaultMaxIdleConns = 5
	defaultMaxOpenConns = 25
)

// PostgresStore persists rows in a single generic table keyed by sheet
// name, keeping the same row-oriented contract as the Sheets backend.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to Postgres and verifies the connection.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*PostgresStore, error) {
	db, err := sql.Open(defaultDBDriver, PostgresURL(cfg))
	if err != nil {
		return nil, err
	}

	db.SetConnMaxIdleTime(defaultConnMaxIdle)
	db.SetConnMaxLifetime(defaultConnMaxLife)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetMaxOpenConns(defaultMaxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

// PostgresURL builds the connection string used by both the store and
// the migrate command.
func PostgresURL(cfg config.DatabaseConfig) string {
	sslmode := "disable"
	if cfg.UseSSL {
		sslmode = "require"
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		User:   url.UserPassword(cfg.User, cfg.Password),
		Path:   cfg.DBName,
	}
	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}

func (p *PostgresStore) ListRows(ctx context.Context, table string) ([]Row, error) {
	const query = `
		SELECT id, fields
		FROM sheet_rows
		WHERE sheet = $1
		ORDER BY id`
	rows, err := p.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrUpstream, table, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var id int64
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("%w: list %s: %v", ErrUpstream, table, err)
		}
		fields := map[string]string{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("%w: list %s: %v", ErrUpstream, table, err)
		}
		out = append(out, Row{ID: strconv.FormatInt(id, 10), Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrUpstream, table, err)
	}
	return out, nil
}

func (p *PostgresStore) AppendRow(ctx context.Context, table string, fields map[string]string) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: append %s: %v", ErrUpstream, table, err)
	}

	const query = `INSERT INTO sheet_rows (sheet, fields) VALUES ($1, $2)`
	if _, err := p.db.ExecContext(ctx, query, table, raw); err != nil {
		return fmt.Errorf("%w: append %s: %v", ErrUpstream, table, err)
	}
	return nil
}

func (p *PostgresStore) UpdateRow(ctx context.Context, table, rowID string, fields map[string]string) error {
	id, err := strconv.ParseInt(rowID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrRowNotFound, rowID)
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", ErrUpstream, table, err)
	}

	const query = `UPDATE sheet_rows SET fields = $1 WHERE sheet = $2 AND id = $3`
	result, err := p.db.ExecContext(ctx, query, raw, table, id)
	if err != nil {
		return fmt.Errorf("%w: update %s row %s: %v", ErrUpstream, table, rowID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update %s row %s: %v", ErrUpstream, table, rowID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", ErrRowNotFound, rowID)
	}
	return nil
}

func (p *PostgresStore) DeleteRow(ctx context.Context, table, rowID string) error {
	id, err := strconv.ParseInt(rowID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrRowNotFound, rowID)
	}

	const query = `DELETE FROM sheet_rows WHERE sheet = $1 AND id = $2`
	result, err := p.db.ExecContext(ctx, query, table, id)
	if err != nil {
		return fmt.Errorf("%w: delete %s row %s: %v", ErrUpstream, table, rowID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete %s row %s: %v", ErrUpstream, table, rowID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", ErrRowNotFound, rowID)
	}
	return nil
}

// Close closes the underlying connection pool.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
