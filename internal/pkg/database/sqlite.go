// internal/pkg/database/sqlite.go
package database

import (
	"fmt"

	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/klausterra/alpha-se-1/internal/pkg/bootstrap"
)

// OpenSQLite opens a single-connection SQLite database, used for local
// development (infra.sqlitePath) and repository tests (":memory:").
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// every pooled connection to :memory: would be a separate database
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// OpenFromConfig picks SQLite when infra.sqlitePath is set, MySQL otherwise.
func OpenFromConfig(cfg *bootstrap.Config) (*gorm.DB, error) {
	if cfg.Infra.SQLitePath != "" {
		zlog.Warn().Str("path", cfg.Infra.SQLitePath).Msg("⚠️ Using SQLite storage, intended for local development only.")
		return OpenSQLite(cfg.Infra.SQLitePath)
	}
	return Open(cfg.Infra.MySQL)
}
