package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "archive:game:"
	redisIndexKey  = "archive:games"
	redisRecordTTL = 30 * 24 * time.Hour
)

// RedisStore keeps each record as JSON plus a sorted index by end time.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for redis archive")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) key(id string) string { return redisKeyPrefix + strings.TrimSpace(id) }

func (s *RedisStore) Save(ctx context.Context, rec GameRecord) error {
	if err := rec.validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ok, err := s.rdb.SetNX(ctx, s.key(rec.ID), raw, redisRecordTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicateGame
	}
	score := float64(rec.EndedAt.UnixNano())
	return s.rdb.ZAdd(ctx, redisIndexKey, redis.Z{Score: score, Member: rec.ID}).Err()
}

func (s *RedisStore) Recent(ctx context.Context, limit int) ([]GameRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := s.rdb.ZRevRange(ctx, redisIndexKey, 0, stop).Result()
	if err != nil {
		return nil, err
	}
	out := make([]GameRecord, 0, len(ids))
	for _, id := range ids {
		raw, err := s.rdb.Get(ctx, s.key(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			// expired record, drop its index entry
			_ = s.rdb.ZRem(ctx, redisIndexKey, id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		var rec GameRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", id, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
