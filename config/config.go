package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GetEnv reads an environment variable with a default.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// StateDir is where the station keeps its durable cache and session files.
func StateDir() string {
	dir := GetEnv("POS_STATE_DIR", filepath.Join(".", "state"))
	_ = os.MkdirAll(dir, 0755)
	return dir
}

// InitDB opens the durable cache. Sqlite is the default engine; mysql is
// supported for deployments where several stations share a back-office cache.
func InitDB() (*gorm.DB, error) {
	driver := GetEnv("DB_DRIVER", "sqlite")

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	switch driver {
	case "sqlite":
		dsn := GetEnv("DB_DSN", filepath.Join(StateDir(), "pos-station.db"))
		db, err := gorm.Open(sqlite.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		return db, nil
	case "mysql":
		dsn := GetEnv("DB_DSN", "pos:pos@tcp(127.0.0.1:3306)/pos_station?charset=utf8mb4&parseTime=True&loc=Local")
		db, err := gorm.Open(mysql.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("open mysql cache: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}
