package progress

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const keyPrefix = "feedgen:progress:city:"

// RedisReporter persists the running offer count under a per-city key so
// external consumers can poll generation progress. Redis failures are logged
// and swallowed: a dead progress channel must never abort a feed run.
type RedisReporter struct {
	redisClient *redis.Client
	key         string
	interval    int64
	count       int64
}

func NewRedisReporter(redisClient *redis.Client, cityID int, interval int) *RedisReporter {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &RedisReporter{
		redisClient: redisClient,
		key:         keyPrefix + strconv.Itoa(cityID),
		interval:    int64(interval),
	}
}

func (r *RedisReporter) Advance() {
	r.count++
	if r.count%r.interval == 0 {
		r.publish()
	}
}

func (r *RedisReporter) Finish() {
	r.publish()
}

func (r *RedisReporter) publish() {
	err := r.redisClient.Set(context.Background(), r.key, r.count, 0).Err()
	if err != nil {
		log.Debugf("Failed to publish progress for %s: %v", r.key, err)
	}
}
