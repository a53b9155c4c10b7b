package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"onsite/internal/presence/models"
)

const (
	// Redis key prefix for presence records, one hash per person.
	presenceKeyPrefix = "presence:"
)

// RedisStore is a Redis-backed presence store. This is the recommended
// backend when several instances serve the display, since all of them
// must see the same latest scan.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed presence store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Upsert overwrites the person's record. A single HSET writes both
// fields atomically, so concurrent scans stay last-write-wins.
func (s *RedisStore) Upsert(ctx context.Context, rec models.Record) error {
	key := presenceKeyPrefix + rec.PersonID.String()
	err := s.client.HSet(ctx, key,
		"last_seen", rec.LastSeen.Unix(),
		"door", rec.Door,
	).Err()
	if err != nil {
		return fmt.Errorf("upsert presence record: %w", err)
	}
	return nil
}

// All scans the presence keyspace and loads every record.
func (s *RedisStore) All(ctx context.Context) ([]models.Record, error) {
	var out []models.Record
	iter := s.client.Scan(ctx, 0, presenceKeyPrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		fields, err := s.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("load presence record %s: %w", key, err)
		}
		if len(fields) == 0 {
			// Key vanished between SCAN and HGETALL.
			continue
		}
		rec, err := parseRecord(key, fields)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan presence records: %w", err)
	}
	return out, nil
}

func parseRecord(key string, fields map[string]string) (models.Record, error) {
	personID, err := uuid.Parse(strings.TrimPrefix(key, presenceKeyPrefix))
	if err != nil {
		return models.Record{}, fmt.Errorf("parse presence key %s: %w", key, err)
	}
	seen, err := strconv.ParseInt(fields["last_seen"], 10, 64)
	if err != nil {
		return models.Record{}, fmt.Errorf("parse last_seen for %s: %w", key, err)
	}
	return models.Record{
		PersonID: personID,
		LastSeen: time.Unix(seen, 0),
		Door:     fields["door"],
	}, nil
}
