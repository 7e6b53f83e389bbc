package util

import (
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// IPLocation is the best-effort location attached to security log entries.
type IPLocation struct {
	City    string
	Country string
}

// String renders "City/Country", or whichever part is known.
func (l IPLocation) String() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + "/" + l.Country
	case l.Country != "":
		return l.Country
	}
	return l.City
}

var (
	geoipMu    sync.RWMutex
	geoipDB    *geoip2.Reader
	geoipCache = cache.New(24*time.Hour, time.Hour)
)

// InitGeoIP opens a GeoIP2/GeoLite2 .mmdb file. An empty path falls back to
// GEOIP_DB_PATH; when both are empty lookups are disabled and nil is returned.
func InitGeoIP(dbPath string) error {
	if dbPath == "" {
		dbPath = os.Getenv("GEOIP_DB_PATH")
	}
	if dbPath == "" {
		return nil
	}
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoipMu.Lock()
	geoipDB = r
	geoipMu.Unlock()
	geoipCache.Flush()
	return nil
}

// CloseGeoIP closes the GeoIP DB if opened.
func CloseGeoIP() {
	geoipMu.Lock()
	defer geoipMu.Unlock()
	if geoipDB != nil {
		_ = geoipDB.Close()
		geoipDB = nil
	}
}

func isLocalIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast()
}

// GetIPLocation resolves ip through the local GeoIP database, caching
// results for a day. Private, loopback and unparsable addresses resolve to
// an empty location.
func GetIPLocation(ip string) IPLocation {
	parsed := net.ParseIP(ip)
	if parsed == nil || isLocalIP(parsed) {
		return IPLocation{}
	}
	if v, ok := geoipCache.Get(ip); ok {
		if loc, ok := v.(IPLocation); ok {
			return loc
		}
	}

	geoipMu.RLock()
	db := geoipDB
	geoipMu.RUnlock()
	if db == nil {
		return IPLocation{}
	}

	rec, err := db.City(parsed)
	if err != nil {
		zap.L().Debug("geoip lookup failed", zap.String("ip", ip), zap.Error(err))
		return IPLocation{}
	}
	loc := IPLocation{City: rec.City.Names["en"], Country: rec.Country.Names["en"]}
	if loc.Country == "" {
		loc.Country = rec.Country.IsoCode
	}
	geoipCache.SetDefault(ip, loc)
	return loc
}
