package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/joeydtaylor/trifle/pkg/codec"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS records (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	fields     TEXT NOT NULL,
	PRIMARY KEY (collection, id)
)`

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) a SQLite database. An empty dsn opens a
// private in-memory database.
func OpenSQLite(dsn string) (Store, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) List(ctx context.Context, collection string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, fields FROM records WHERE collection = ? ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		rec, err := decode(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Get(ctx context.Context, collection, id string) (Record, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM records WHERE collection = ? AND id = ?`, collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("store: get %s/%s: %w", collection, id, err)
	}
	return decode(id, raw)
}

func (s *sqliteStore) Put(ctx context.Context, collection string, rec Record) error {
	if err := validKey(collection, rec.ID); err != nil {
		return err
	}
	fields := rec.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	raw, err := codec.JSONStrict.Marshal(fields)
	if err != nil {
		return fmt.Errorf("store: encode %s/%s: %w", collection, rec.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (collection, id, fields) VALUES (?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET fields = excluded.fields`,
		collection, rec.ID, string(raw))
	if err != nil {
		return fmt.Errorf("store: put %s/%s: %w", collection, rec.ID, err)
	}
	return nil
}

func (s *sqliteStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", collection, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return nil
}

func (s *sqliteStore) Close() error { return s.db.Close() }

func decode(id, raw string) (Record, error) {
	fields := map[string]string{}
	if err := codec.JSONStrict.Unmarshal([]byte(raw), &fields); err != nil {
		return Record{}, fmt.Errorf("store: decode %s: %w", id, err)
	}
	return Record{ID: id, Fields: fields}, nil
}
