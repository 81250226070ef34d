package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"simulado-service/internal/domain"
)

// Store persists the aggregate as a single JSONB row, keeping the
// one-document read-modify-write discipline on top of Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Load reads the latest committed document; a missing row means a fresh
// portal and gets initialized with the default aggregate.
func (s *Store) Load(ctx context.Context) (domain.Aggregate, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM app_state WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		fresh := domain.DefaultAggregate()
		if err := s.Save(ctx, fresh); err != nil {
			return domain.Aggregate{}, err
		}
		return fresh, nil
	}
	if err != nil {
		return domain.Aggregate{}, fmt.Errorf("load state: %w", err)
	}

	agg := domain.DefaultAggregate()
	if err := json.Unmarshal(raw, &agg); err != nil {
		return domain.Aggregate{}, fmt.Errorf("unmarshal state: %w", err)
	}
	return agg, nil
}

// Save upserts the single row; the whole document is replaced in one write.
func (s *Store) Save(ctx context.Context, agg domain.Aggregate) error {
	data, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO app_state (id, data) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, data)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
