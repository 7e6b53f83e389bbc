package util

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ariebrainware/clinic-appointment/config"
	"github.com/ariebrainware/clinic-appointment/model"
)

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func accountSetKey(accountID string) string {
	return fmt.Sprintf("account_sessions:%s", accountID)
}

// removeTokenScript removes a token from an account set and deletes the set
// once it is empty.
const removeTokenScript = `
	local removed = redis.call('SREM', KEYS[1], ARGV[1])
	if removed > 0 then
		local count = redis.call('SCARD', KEYS[1])
		if count == 0 then
			redis.call('DEL', KEYS[1])
		end
	end
	return removed
`

// CacheSession stores session:<token> = "<accountID>:<ROLE>" for ttl and adds
// the token to the account's set. A nil Redis client makes this a no-op.
func CacheSession(ctx context.Context, token, accountID string, role model.Role, ttl time.Duration) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	if err := rdb.Set(ctx, sessionKey(token), accountID+":"+string(role), ttl).Err(); err != nil {
		return err
	}
	setKey := accountSetKey(accountID)
	if err := rdb.SAdd(ctx, setKey, token).Err(); err != nil {
		return err
	}
	// The set must outlive every member. NX covers a set without a TTL, GT
	// only ever extends an existing one, so re-caching an older session
	// cannot shorten it.
	if err := rdb.ExpireNX(ctx, setKey, ttl).Err(); err != nil {
		return err
	}
	return rdb.ExpireGT(ctx, setKey, ttl).Err()
}

// LookupCachedSession reads a cached session. ok is false on a cache miss or
// when Redis is not configured.
func LookupCachedSession(ctx context.Context, token string) (accountID string, role model.Role, ok bool, err error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return "", "", false, nil
	}
	val, err := rdb.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}
	idx := strings.LastIndex(val, ":")
	if idx <= 0 {
		return "", "", false, nil
	}
	role, perr := model.ParseRole(val[idx+1:])
	if perr != nil {
		return "", "", false, nil
	}
	return val[:idx], role, true, nil
}

// RemoveCachedSession deletes one session and drops it from the account set.
func RemoveCachedSession(ctx context.Context, token, accountID string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	if err := rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return err
	}
	return rdb.Eval(ctx, removeTokenScript, []string{accountSetKey(accountID)}, token).Err()
}

// InvalidateAccountSessions deletes every cached session of an account.
// Best-effort: callers may ignore the error.
func InvalidateAccountSessions(ctx context.Context, accountID string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	setKey := accountSetKey(accountID)
	members, err := rdb.SMembers(ctx, setKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	for _, tok := range members {
		_ = rdb.Del(ctx, sessionKey(tok)).Err()
	}
	return rdb.Del(ctx, setKey).Err()
}
