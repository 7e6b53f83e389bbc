package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ariebrainware/clinic-appointment/store"
)

const (
	dbKey     = "db"
	storesKey = "stores"
)

func setCorsHeaders(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE, PATCH")
	h.Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Authorization, session-token")
	h.Set("Access-Control-Max-Age", "86400")
	h.Set("Access-Control-Allow-Credentials", "true")
	h.Set("Content-Type", "application/json")
}

// CORSMiddleware configures CORS headers for incoming requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		setCorsHeaders(c)

		// For preflight requests, respond with 204 and abort further processing.
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// DatabaseMiddleware makes db available to handlers through GetDB.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbKey, db)
		c.Next()
	}
}

// GetDB returns the request's database handle, or nil when none was set.
func GetDB(c *gin.Context) *gorm.DB {
	v, ok := c.Get(dbKey)
	if !ok {
		return nil
	}
	db, _ := v.(*gorm.DB)
	return db
}

// Stores bundles the persistence collaborators handlers work with.
type Stores struct {
	Accounts     *store.AccountStore
	Appointments *store.AppointmentStore
}

func StoreMiddleware(s Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(storesKey, s)
		c.Next()
	}
}

// GetStores returns the stores set by StoreMiddleware. ok is false when
// either store is missing.
func GetStores(c *gin.Context) (Stores, bool) {
	v, exists := c.Get(storesKey)
	if !exists {
		return Stores{}, false
	}
	s, ok := v.(Stores)
	if !ok || s.Accounts == nil || s.Appointments == nil {
		return Stores{}, false
	}
	return s, true
}
