package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultRedisAddr = "localhost:6379"
	redisPingTimeout = 2 * time.Second
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// RedisSettings is the connection part of the environment: REDIS_ADDR,
// REDIS_PASS and REDIS_DB.
type RedisSettings struct {
	Addr     string
	Password string
	DB       int
}

func redisSettingsFromEnv() (RedisSettings, error) {
	s := RedisSettings{
		Addr:     getEnv("REDIS_ADDR", defaultRedisAddr),
		Password: os.Getenv("REDIS_PASS"),
	}
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return RedisSettings{}, fmt.Errorf("invalid REDIS_DB %q", raw)
		}
		s.DB = db
	}
	return s, nil
}

// redisEnabled reports whether REDIS_ENABLED opts in. Redis is never used
// under APPENV=test; tests inject a mock client instead.
func redisEnabled() bool {
	if IsTest() {
		return false
	}
	enabled, _ := strconv.ParseBool(os.Getenv("REDIS_ENABLED"))
	return enabled
}

// ConnectRedis connects the shared client once. It returns nil without an
// error when Redis is disabled; sessions then live in the database only and
// rate limiting lets every request through.
func ConnectRedis() (*redis.Client, error) {
	var err error
	redisOnce.Do(func() {
		if !redisEnabled() {
			return
		}
		var settings RedisSettings
		if settings, err = redisSettingsFromEnv(); err != nil {
			return
		}

		rdb := redis.NewClient(&redis.Options{
			Addr:     settings.Addr,
			Password: settings.Password,
			DB:       settings.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err = rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			err = fmt.Errorf("redis ping failed: %w", err)
			return
		}

		redisClient = rdb
		zap.L().Info("connected to redis", zap.String("addr", settings.Addr), zap.Int("db", settings.DB))
	})
	return redisClient, err
}

// GetRedisClient returns the shared client, or nil when Redis is not in use.
func GetRedisClient() *redis.Client {
	return redisClient
}

// SetRedisClientForTest installs client, typically a redismock client, as
// the shared client. Other packages' tests use it, so it cannot live in a
// _test.go file.
func SetRedisClientForTest(client *redis.Client) {
	redisClient = client
}

// ResetRedisClientForTest forgets the shared client and lets ConnectRedis
// run again.
func ResetRedisClientForTest() {
	redisClient = nil
	redisOnce = sync.Once{}
}
