package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// DictMapConn is a scoped connection to the dict-map table.
// Callers must Close it once the operation is finished.
type DictMapConn struct {
	conn *sql.Conn
}

// OpenDictMap checks out a dedicated connection for one dict-map operation.
func (s *Store) OpenDictMap(ctx context.Context) (*DictMapConn, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &DictMapConn{conn: conn}, nil
}

// Close returns the connection to the pool.
func (c *DictMapConn) Close() error {
	return c.conn.Close()
}

// Get reads the payload stored under key.
func (c *DictMapConn) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var value []byte
	err := c.conn.QueryRowContext(ctx, `SELECT value FROM dict_map WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return json.RawMessage(value), true, nil
}

// Put stores value under key.
func (c *DictMapConn) Put(ctx context.Context, key string, value json.RawMessage) error {
	_, err := c.conn.ExecContext(ctx,
		`INSERT INTO dict_map (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, []byte(value), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// Clear deletes every dict-map entry.
func (c *DictMapConn) Clear(ctx context.Context) error {
	_, err := c.conn.ExecContext(ctx, `DELETE FROM dict_map`)
	return err
}

// Count returns the number of stored entries.
func (c *DictMapConn) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM dict_map`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
