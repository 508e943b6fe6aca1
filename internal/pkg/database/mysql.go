// internal/pkg/database/mysql.go
package database

import (
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	zlog "github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/klausterra/alpha-se-1/internal/pkg/bootstrap"
)

// DSN renders the MySQL connection string for cfg.
func DSN(cfg bootstrap.MySQLConfig) string {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = cfg.Addr
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Database
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// Open connects GORM to MySQL. TranslateError maps duplicate-key failures to
// gorm.ErrDuplicatedKey so repositories can detect unique-index races.
func Open(cfg bootstrap.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(gormmysql.Open(DSN(cfg)), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	zlog.Info().Str("addr", cfg.Addr).Str("database", cfg.Database).Msg("✅ Connected to MySQL.")
	return db, nil
}
