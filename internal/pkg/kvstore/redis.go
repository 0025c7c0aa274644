package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// setIfAbsentScript writes KEYS[i] = ARGV[2i-1] with a PX of ARGV[2i]
// for every key, unless KEYS[1] exists.
var setIfAbsentScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
for i = 1, #KEYS do
	local ttl = tonumber(ARGV[i * 2])
	if ttl > 0 then
		redis.call('SET', KEYS[i], ARGV[i * 2 - 1], 'PX', ttl)
	else
		redis.call('SET', KEYS[i], ARGV[i * 2 - 1])
	end
end
return 1
`)

// compareAndSwapScript sets KEYS[1] = ARGV[2] with a PX of ARGV[3] when it
// currently holds ARGV[1].
var compareAndSwapScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) ~= ARGV[1] then
	return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ttl)
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// Redis is a Store backed by a go-redis client.
//
// SetIfAbsent touches several keys in one script; on Redis Cluster those keys
// must hash to the same slot.
type Redis struct {
	client redis.UniversalClient
}

// NewRedis wraps an existing client. The caller owns the client lifecycle.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, normalizeTTL(ttl)).Err()
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	return val, nil
}

func (r *Redis) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	return r.client.Del(ctx, keys...).Result()
}

func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r *Redis) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return r.client.Persist(ctx, key).Err()
	}

	return r.client.PExpire(ctx, key, ttl).Err()
}

func (r *Redis) SetIfAbsent(ctx context.Context, guard Entry, entries ...Entry) (bool, error) {
	all := append([]Entry{guard}, entries...)

	keys := make([]string, 0, len(all))
	args := make([]any, 0, len(all)*2)
	for _, e := range all {
		keys = append(keys, e.Key)
		args = append(args, e.Value, normalizeTTL(e.TTL).Milliseconds())
	}

	n, err := setIfAbsentScript.Run(ctx, r.client, keys, args...).Int64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (r *Redis) CompareAndSwap(ctx context.Context, old string, e Entry) (bool, error) {
	n, err := compareAndSwapScript.Run(ctx, r.client, []string{e.Key},
		old, e.Value, normalizeTTL(e.TTL).Milliseconds()).Int64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

// normalizeTTL maps "no expiry" onto go-redis' zero expiration; a negative
// value would otherwise mean KEEPTTL.
func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl < 0 {
		return 0
	}

	return ttl
}
