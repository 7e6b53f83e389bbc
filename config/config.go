package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config is the process configuration, read from the environment.
type Config struct {
	AppName string `json:"appname"`
	AppEnv  string `json:"appenv"`
	AppPort uint16 `json:"appport"`
	GinMode string `json:"ginmode"`
	DBHost  string `json:"dbhost"`
	DBPort  uint16 `json:"dbport"`
	DBName  string `json:"dbname"`
	DBUSER  string `json:"dbuser"`
	DBPass  string `json:"dbpass"`

	JWTSecret string `json:"-"`
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	SessionTTL       time.Duration `json:"session_ttl"`
	DoctorCacheTTL   time.Duration `json:"doctor_cache_ttl"`
	PatientCacheSize int           `json:"patient_cache_size"`
	GeoIPDBPath      string        `json:"geoip_db_path"`
}

const (
	defaultSessionTTLMinutes    = 60
	defaultDoctorCacheTTLSecond = 300
	defaultPatientCacheSize     = 1000
)

var config *Config
var once sync.Once

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// LoadConfig reads .env (when present) and the process environment once and
// returns the shared Config. It runs before the zap logger exists, so a
// malformed .env is reported through the standard logger.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("config: ignoring .env: %v", err)
		}
		config = fromEnv()
	})
	return config
}

func fromEnv() *Config {
	appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
	dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)

	return &Config{
		AppName: getEnv("APPNAME", "clinic-appointment"),
		AppEnv:  os.Getenv("APPENV"),
		AppPort: uint16(appPort),
		GinMode: os.Getenv("GINMODE"),
		DBHost:  os.Getenv("DBHOST"),
		DBPort:  uint16(dbPort),
		DBName:  os.Getenv("DBNAME"),
		DBUSER:  os.Getenv("DBUSER"),
		DBPass:  os.Getenv("DBPASS"),

		JWTSecret: os.Getenv("JWTSECRET"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		SessionTTL:       time.Duration(getEnvInt("SESSION_TTL_MINUTES", defaultSessionTTLMinutes)) * time.Minute,
		DoctorCacheTTL:   time.Duration(getEnvInt("DOCTOR_CACHE_TTL_SECONDS", defaultDoctorCacheTTLSecond)) * time.Second,
		PatientCacheSize: getEnvInt("PATIENT_CACHE_SIZE", defaultPatientCacheSize),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
	}
}

// IsTest reports whether the process runs with APPENV=test. It reads the
// environment directly so tests can switch it with t.Setenv after the
// config singleton was loaded.
func IsTest() bool {
	return os.Getenv("APPENV") == "test"
}

// MySQLDSN renders the go-sql-driver DSN for cfg. parseTime is required for
// the time.Time columns.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.DBUSER, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

// ConnectMySQL opens the application database. Under APPENV=test it opens a
// private in-memory sqlite database instead, so every call gets a fresh schema.
func ConnectMySQL() (*gorm.DB, error) {
	if IsTest() {
		dsn := fmt.Sprintf("file:clinic_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}

	db, err := gorm.Open(mysql.Open(LoadConfig().MySQLDSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	return db, nil
}
