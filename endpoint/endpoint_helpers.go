package endpoint

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ariebrainware/clinic-appointment/middleware"
	"github.com/ariebrainware/clinic-appointment/model"
	"github.com/ariebrainware/clinic-appointment/store"
	"github.com/ariebrainware/clinic-appointment/util"
)

const defaultSessionTTL = time.Hour

var sessionTTL = defaultSessionTTL

// SetSessionTTL sets how long sessions opened at login and signup last.
// Non-positive values restore the one hour default.
func SetSessionTTL(d time.Duration) {
	if d <= 0 {
		d = defaultSessionTTL
	}
	sessionTTL = d
}

type clientInfo struct {
	IP    string
	Agent string
}

func clientInfoFrom(c *gin.Context) clientInfo {
	return clientInfo{IP: c.ClientIP(), Agent: c.Request.UserAgent()}
}

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

func getStoresOrRespond(c *gin.Context) (middleware.Stores, bool) {
	stores, ok := middleware.GetStores(c)
	if !ok {
		util.CallServerError(c, util.APIErrorParams{Msg: "Store not available", Err: fmt.Errorf("stores not set")})
		return middleware.Stores{}, false
	}
	return stores, true
}

func sessionOrRespond(c *gin.Context) (model.Session, bool) {
	session, ok := middleware.GetSession(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "User not authenticated",
			Err: fmt.Errorf("session not found in context"),
		})
		return model.Session{}, false
	}
	return session, true
}

// resultOrRespond unwraps a store result. A miss answers 404 with notFound,
// a failure answers 500 and is counted under operation.
func resultOrRespond[T any](c *gin.Context, r store.Result[T], operation, notFound string) (T, bool) {
	switch r.Kind() {
	case store.KindFound:
		return r.Data(), true
	case store.KindEmpty:
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: notFound, Err: fmt.Errorf("%s: not found", operation)})
	default:
		respondStoreFailure(c, operation, r.Err())
	}
	var zero T
	return zero, false
}

// listOrRespond unwraps a list result. An empty list is a normal answer;
// only a failure responds, with 500.
func listOrRespond[T any](c *gin.Context, r store.Result[[]T], operation string) ([]T, bool) {
	if r.IsFailed() {
		respondStoreFailure(c, operation, r.Err())
		return nil, false
	}
	return store.DataOrEmpty(r), true
}

func respondStoreFailure(c *gin.Context, operation string, err error) {
	middleware.GetMetrics(c).StoreFailure(operation)
	zap.L().Error("store operation failed", zap.String("operation", operation), zap.Error(err))
	util.CallServerError(c, util.APIErrorParams{Msg: "Failed to load data", Err: err})
}
