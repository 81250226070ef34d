package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"simulado-service/internal/domain"
)

const stateKey = "simulado:state"

// Store keeps the whole aggregate as one JSON value under a single Redis
// key, which gives the same single-document write atomicity the portal was
// designed around.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Load fetches the latest committed document. A missing key means a fresh
// portal: the default aggregate is written and returned.
func (s *Store) Load(ctx context.Context) (domain.Aggregate, error) {
	raw, err := s.client.Get(ctx, stateKey).Bytes()
	if errors.Is(err, redis.Nil) {
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

// Save overwrites the document in one SET; no TTL, the state is canonical.
func (s *Store) Save(ctx context.Context, agg domain.Aggregate) error {
	data, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := s.client.Set(ctx, stateKey, data, 0).Err(); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
