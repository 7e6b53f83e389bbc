package util

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariebrainware/clinic-appointment/config"
	"github.com/ariebrainware/clinic-appointment/model"
)

func withRedisMock(t *testing.T) redismock.ClientMock {
	t.Helper()
	db, mock := redismock.NewClientMock()
	config.SetRedisClientForTest(db)
	t.Cleanup(func() {
		config.SetRedisClientForTest(nil)
		_ = db.Close()
	})
	return mock
}

func TestCacheSession(t *testing.T) {
	mock := withRedisMock(t)
	ttl := time.Hour

	mock.ExpectSet("session:tok-1", "acc-1:DOCTOR", ttl).SetVal("OK")
	mock.ExpectSAdd("account_sessions:acc-1", "tok-1").SetVal(1)
	mock.ExpectExpireNX("account_sessions:acc-1", ttl).SetVal(true)
	mock.ExpectExpireGT("account_sessions:acc-1", ttl).SetVal(false)

	require.NoError(t, CacheSession(context.Background(), "tok-1", "acc-1", model.RoleDoctor, ttl))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheSession_RecachingOlderSessionOnlyExtendsSet(t *testing.T) {
	mock := withRedisMock(t)
	remaining := 10 * time.Minute

	mock.ExpectSet("session:old-tok", "acc-1:PATIENT", remaining).SetVal("OK")
	mock.ExpectSAdd("account_sessions:acc-1", "old-tok").SetVal(0)
	mock.ExpectExpireNX("account_sessions:acc-1", remaining).SetVal(false)
	mock.ExpectExpireGT("account_sessions:acc-1", remaining).SetVal(false)

	require.NoError(t, CacheSession(context.Background(), "old-tok", "acc-1", model.RolePatient, remaining))
	assert.NoError(t, mock.ExpectationsWereMet(), "no plain EXPIRE may reset the set TTL")
}

func TestCacheSession_SetError(t *testing.T) {
	mock := withRedisMock(t)
	mock.ExpectSet("session:tok-1", "acc-1:PATIENT", time.Minute).SetErr(errors.New("redis down"))

	err := CacheSession(context.Background(), "tok-1", "acc-1", model.RolePatient, time.Minute)
	assert.EqualError(t, err, "redis down")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupCachedSession(t *testing.T) {
	mock := withRedisMock(t)
	ctx := context.Background()

	mock.ExpectGet("session:tok-1").SetVal("acc-1:PATIENT")
	id, role, ok, err := LookupCachedSession(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "acc-1", id)
	assert.Equal(t, model.RolePatient, role)

	mock.ExpectGet("session:missing").RedisNil()
	_, _, ok, err = LookupCachedSession(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectGet("session:garbled").SetVal("no-role")
	_, _, ok, err = LookupCachedSession(ctx, "garbled")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectGet("session:broken").SetErr(errors.New("timeout"))
	_, _, ok, err = LookupCachedSession(ctx, "broken")
	assert.Error(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveCachedSession(t *testing.T) {
	mock := withRedisMock(t)

	mock.ExpectDel("session:tok-1").SetVal(1)
	mock.ExpectEval(removeTokenScript, []string{"account_sessions:acc-1"}, "tok-1").SetVal(int64(1))

	require.NoError(t, RemoveCachedSession(context.Background(), "tok-1", "acc-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateAccountSessions(t *testing.T) {
	mock := withRedisMock(t)
	tokens := []string{"token1", "token2"}

	mock.ExpectSMembers("account_sessions:acc-1").SetVal(tokens)
	for _, tok := range tokens {
		mock.ExpectDel("session:" + tok).SetVal(1)
	}
	mock.ExpectDel("account_sessions:acc-1").SetVal(1)

	require.NoError(t, InvalidateAccountSessions(context.Background(), "acc-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionHelpersWithoutRedis(t *testing.T) {
	config.SetRedisClientForTest(nil)
	ctx := context.Background()

	assert.NoError(t, CacheSession(ctx, "t", "a", model.RolePatient, time.Minute))
	_, _, ok, err := LookupCachedSession(ctx, "t")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, RemoveCachedSession(ctx, "t", "a"))
	assert.NoError(t, InvalidateAccountSessions(ctx, "a"))
}
