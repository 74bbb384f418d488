package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"geostore/pkg/common/config"
	"geostore/pkg/common/fs"
	"geostore/pkg/common/logger"
)

// Dialect names as reported by gorm's Dialector.Name().
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// sqliteParams turns on foreign key enforcement, which sqlite leaves off by default.
const sqliteParams = "?_foreign_keys=1&_busy_timeout=5000"

// sqliteDSN makes sure an explicit sqlite DSN enforces foreign keys.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=1"
}

// postgresDSN points every connection of the pool at schema unless the
// DSN already chooses a search_path.
func postgresDSN(dsn, schema string) string {
	if schema == "" || strings.Contains(dsn, "search_path") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return strings.TrimSpace(dsn) + " search_path=" + schema
}

// Open connects to the configured database. For sqlite without an explicit
// DSN the file lives in the .runtime directory under cfg.Database.Dir.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, target, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}
	logMode := gormlogger.Silent
	if cfg.Debug {
		logMode = gormlogger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("open db failed: %w", err)
	}
	logger.WithComponent("database").Info().Str("driver", cfg.Database.Driver).Str("db", target).Msg("database opened")
	return db, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, string, error) {
	switch cfg.Driver {
	case SQLite:
		dsn := cfg.DSN
		if dsn == "" {
			fsys, err := fs.New(cfg.Dir)
			if err != nil {
				return nil, "", fmt.Errorf("filesystem init failed: %w", err)
			}
			path := fsys.DatabasePath(cfg.Name)
			return sqlite.Open(path + sqliteParams), path, nil
		}
		return sqlite.Open(sqliteDSN(dsn)), dsn, nil
	case Postgres:
		if cfg.DSN == "" {
			return nil, "", fmt.Errorf("postgres requires a dsn")
		}
		return postgres.New(postgres.Config{
			DSN:                  postgresDSN(cfg.DSN, cfg.Schema),
			PreferSimpleProtocol: true,
		}), "postgres", nil
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
