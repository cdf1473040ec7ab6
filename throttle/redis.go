package throttle

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// recordScript prunes, checks, and appends in one atomic step on the
// Redis side. Returns {allowed, count, oldest score in ms}.
var recordScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

-- Exclusive min: a request scored exactly now - window is still
-- inside the window, matching History and the in-memory store.
redis.call('ZREMRANGEBYSCORE', key, '-inf', '(' .. (now - window))
local count = redis.call('ZCARD', key)
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local oldestScore = '0'
if oldest[2] then
	oldestScore = oldest[2]
end

if count >= limit then
	return {0, count, oldestScore}
end

redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, window)
return {1, count, oldestScore}
`)

// RedisStore keeps request histories in Redis sorted sets scored by
// millisecond timestamps, so every replica sees the same windows.
type RedisStore struct {
	client *redis.Client
}

func CreateRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) History(ctx context.Context, key string, window time.Duration, now time.Time) ([]time.Time, error) {
	windowStart := now.Add(-window).UnixMilli()

	scores, err := s.client.ZRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{
		Min: strconv.FormatInt(windowStart, 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}

	history := make([]time.Time, 0, len(scores))
	for _, z := range scores {
		history = append(history, time.UnixMilli(int64(z.Score)))
	}
	return history, nil
}

func (s *RedisStore) RecordRequest(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (Decision, error) {
	result, err := recordScript.Run(ctx, s.client,
		[]string{key},
		now.UnixMilli(),
		window.Milliseconds(),
		limit,
		uuid.NewString(),
	).Result()
	if err != nil {
		return Decision{}, err
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 3 {
		return Decision{}, errUnexpectedScriptReply
	}

	allowed, _ := values[0].(int64)
	count, _ := values[1].(int64)

	var oldest time.Time
	if raw, ok := values[2].(string); ok {
		if ms, err := strconv.ParseFloat(raw, 64); err == nil && ms > 0 {
			oldest = time.UnixMilli(int64(ms))
		}
	}

	return Decision{
		Allowed: allowed == 1,
		Count:   int(count),
		Oldest:  oldest,
	}, nil
}
