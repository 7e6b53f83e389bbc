package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ariebrainware/clinic-appointment/model"
	"github.com/ariebrainware/clinic-appointment/util"
)

const (
	SessionTokenHeader = "session-token"
	sessionKey         = "session"
)

var (
	errNoToken        = errors.New("session token not provided")
	errSessionExpired = errors.New("session expired")
	errSessionUnknown = errors.New("session not found")
)

func abortUnauthorized(c *gin.Context, msg string, err error) {
	util.LogUnauthorizedAccess("", c.ClientIP(), c.Request.URL.Path, err.Error())
	util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: msg, Err: err})
	c.Abort()
}

// ValidateLoginToken authenticates the session-token header and stores the
// resulting model.Session in the context for GetSession. The token must be a
// valid signed session token; the session itself is read from Redis when
// cached, otherwise from the sessions table.
func ValidateLoginToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionTokenHeader)
		if token == "" {
			abortUnauthorized(c, "Session token not provided", errNoToken)
			return
		}

		db := GetDB(c)
		if db == nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
			c.Abort()
			return
		}

		claims, err := util.ParseSessionToken(token)
		if err != nil {
			abortUnauthorized(c, "Invalid session token", err)
			return
		}

		session, err := resolveSession(c, db, token, claims)
		if err != nil {
			abortUnauthorized(c, "Session is invalid or expired", err)
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

func resolveSession(c *gin.Context, db *gorm.DB, token string, claims *util.SessionClaims) (model.Session, error) {
	ctx := c.Request.Context()
	accountID, role, ok, err := util.LookupCachedSession(ctx, token)
	if err != nil {
		zap.L().Warn("session cache lookup failed", zap.Error(err))
	}
	if ok && accountID == claims.Subject && role == claims.Role {
		return model.Session{
			SessionToken: token,
			AccountID:    accountID,
			Role:         role,
			ExpiresAt:    claims.ExpiresAt.Time,
			ClientIP:     c.ClientIP(),
			Browser:      c.Request.UserAgent(),
		}, nil
	}

	var session model.Session
	if err := db.WithContext(ctx).Where("session_token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Session{}, errSessionUnknown
		}
		return model.Session{}, err
	}
	now := time.Now()
	if session.IsExpired(now) {
		return model.Session{}, errSessionExpired
	}
	if session.AccountID != claims.Subject || session.Role != claims.Role {
		return model.Session{}, errSessionUnknown
	}
	// repopulate the cache, best-effort
	_ = util.CacheSession(ctx, token, session.AccountID, session.Role, session.ExpiresAt.Sub(now))
	return session, nil
}

// GetSession returns the authenticated session set by ValidateLoginToken.
func GetSession(c *gin.Context) (model.Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return model.Session{}, false
	}
	s, ok := v.(model.Session)
	return s, ok
}

// RequireRole rejects authenticated callers of any other role with 403.
// It must run after ValidateLoginToken.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := GetSession(c)
		if !ok {
			abortUnauthorized(c, "User not authenticated", errNoToken)
			return
		}
		if s.Role != role {
			util.LogUnauthorizedAccess(s.AccountID, c.ClientIP(), c.Request.URL.Path, fmt.Sprintf("role %s required", role))
			util.CallForbidden(c, util.APIErrorParams{
				Msg: fmt.Sprintf("Only %s accounts can use this resource", role.Display()),
				Err: fmt.Errorf("role %s required", role),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
