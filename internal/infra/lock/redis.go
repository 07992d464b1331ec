package lock

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// only the holder of the token may delete the key
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis shares a lock between every API replica through SET NX PX.
type Redis struct {
	rdb    *redis.Client
	prefix string
	log    zerolog.Logger
}

func NewRedis(rdb *redis.Client, prefix string, log zerolog.Logger) *Redis {
	return &Redis{
		rdb:    rdb,
		prefix: prefix,
		log:    log.With().Str("component", "lock").Logger(),
	}
}

func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	full := r.prefix + key
	token := uuid.NewString()

	ok, err := r.rdb.SetNX(ctx, full, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, r.rdb, []string{full}, token).Err(); err != nil {
				r.log.Warn().Err(err).Str("key", full).Msg("lock release failed")
			}
		})
	}, nil
}

var (
	_ Locker = (*Redis)(nil)
	_ Locker = (*Local)(nil)
)
