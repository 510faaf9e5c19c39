package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"go-atm/models"
)

// redisKey holds the whole collection as one JSON value, preserving the
// whole-collection read-modify-write lifecycle of the file backend.
const redisKey = "atm:customers"

// RedisStore keeps the ledger in redis. Selected with
// STORE_BACKEND=redis; the collection is seeded on first read.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		}),
	}
}

// redisCustomer is the serialized form. The domain struct hides the PIN
// from JSON, so persistence needs its own record that keeps it.
type redisCustomer struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PIN           string `json:"pin"`
	BasicChecking int64  `json:"basicChecking"`
	Savings       int64  `json:"savings"`
}

func (s *RedisStore) LoadAll(ctx context.Context) ([]models.Customer, error) {
	val, err := s.client.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		if err := s.SaveAll(ctx, seedCustomers()); err != nil {
			return nil, err
		}
		if val, err = s.client.Get(ctx, redisKey).Result(); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, redisKey, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, redisKey, err)
	}

	var records []redisCustomer
	if err := json.Unmarshal([]byte(val), &records); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrUnavailable, redisKey, err)
	}
	customers := make([]models.Customer, len(records))
	for i, r := range records {
		customers[i] = models.Customer{
			ID:             r.ID,
			CustomerNumber: r.ID,
			Name:           r.Name,
			PIN:            r.PIN,
			BasicChecking:  r.BasicChecking,
			Savings:        r.Savings,
		}
	}
	return customers, nil
}

func (s *RedisStore) SaveAll(ctx context.Context, customers []models.Customer) error {
	records := make([]redisCustomer, len(customers))
	for i, c := range customers {
		records[i] = redisCustomer{
			ID:            c.ID,
			Name:          c.Name,
			PIN:           c.PIN,
			BasicChecking: c.BasicChecking,
			Savings:       c.Savings,
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", ErrUnavailable, redisKey, err)
	}
	if err := s.client.Set(ctx, redisKey, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrUnavailable, redisKey, err)
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, id string) (models.Customer, error) {
	customers, err := s.LoadAll(ctx)
	if err != nil {
		return models.Customer{}, err
	}
	return findByID(customers, id)
}
