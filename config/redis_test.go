package config

import (
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestConnectRedis_DisabledByDefault(t *testing.T) {
	ResetRedisClientForTest()
	t.Cleanup(ResetRedisClientForTest)
	t.Setenv("APPENV", "development")
	t.Setenv("REDIS_ENABLED", "")

	rdb, err := ConnectRedis()
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestConnectRedis_SkippedInTestEnv(t *testing.T) {
	ResetRedisClientForTest()
	t.Cleanup(ResetRedisClientForTest)
	t.Setenv("APPENV", "test")
	t.Setenv("REDIS_ENABLED", "true")

	rdb, err := ConnectRedis()
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestConnectRedis_PingFailure(t *testing.T) {
	ResetRedisClientForTest()
	t.Cleanup(ResetRedisClientForTest)
	t.Setenv("APPENV", "development")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")
	t.Setenv("REDIS_DB", "invalid")

	rdb, err := ConnectRedis()
	assert.Error(t, err)
	assert.Nil(t, rdb)
	assert.Nil(t, GetRedisClient())
}

func TestConnectRedis_ConcurrentCalls(t *testing.T) {
	ResetRedisClientForTest()
	t.Cleanup(ResetRedisClientForTest)
	t.Setenv("APPENV", "test")

	type callResult struct {
		rdb interface{}
		err error
	}
	done := make(chan callResult, 5)
	for i := 0; i < 5; i++ {
		go func() {
			rdb, err := ConnectRedis()
			done <- callResult{rdb: rdb, err: err}
		}()
	}
	for i := 0; i < 5; i++ {
		res := <-done
		assert.NoError(t, res.err)
		assert.Nil(t, res.rdb)
	}
}

func TestRedisSettingsFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    RedisSettings
		wantErr bool
	}{
		{name: "defaults", env: map[string]string{"REDIS_ADDR": "", "REDIS_PASS": "", "REDIS_DB": ""}, want: RedisSettings{Addr: "localhost:6379"}},
		{name: "explicit", env: map[string]string{"REDIS_ADDR": "cache:6380", "REDIS_PASS": "pw", "REDIS_DB": "2"}, want: RedisSettings{Addr: "cache:6380", Password: "pw", DB: 2}},
		{name: "bad db", env: map[string]string{"REDIS_DB": "one"}, wantErr: true},
		{name: "negative db", env: map[string]string{"REDIS_DB": "-1"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			got, err := redisSettingsFromEnv()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRedisTestHelpers_SetAndReset(t *testing.T) {
	original := GetRedisClient()
	t.Cleanup(func() { SetRedisClientForTest(original) })

	client, _ := redismock.NewClientMock()
	SetRedisClientForTest(client)
	assert.Same(t, client, GetRedisClient())

	ResetRedisClientForTest()
	assert.Nil(t, GetRedisClient())
}
