package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PGStore keeps map files in the maps table.
type PGStore struct {
	db *DB
}

func NewPGStore(db *DB) *PGStore {
	return &PGStore{db: db}
}

func (r *PGStore) Read(ctx context.Context, name string) ([]byte, error) {
	var body string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT body FROM maps WHERE name = $1`, name,
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, ErrMapNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query map %s: %w", name, err)
	}
	return []byte(body), nil
}

func (r *PGStore) Write(ctx context.Context, name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO maps (name, body, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`,
		name, string(data),
	)
	if err != nil {
		return fmt.Errorf("upsert map %s: %w", name, err)
	}
	return nil
}

// List returns the names of all stored maps.
func (r *PGStore) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT name FROM maps ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan maps: %w", err)
	}
	return names, nil
}
