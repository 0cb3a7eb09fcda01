// Package blobstore persists opaque blobs under numeric keys. Backends: memory,
// gorm (sqlite, mysql, postgres) and gofiber key/value storage (mysql, postgres).
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rokkenjima/watchface/internal/config"
	"github.com/rokkenjima/watchface/internal/db/dsn"
)

const busyTimeoutMS = 5000

var (
	// ErrNotFound is returned by Load and Delete when nothing is stored under the key.
	ErrNotFound = errors.New("blob not found")
	// ErrUnknownEngine is returned by Open for an unsupported storage engine.
	ErrUnknownEngine = errors.New("unknown storage engine")
)

// Store is a keyed blob store. Save replaces the whole blob.
type Store interface {
	Load(ctx context.Context, key uint32) ([]byte, error)
	Save(ctx context.Context, key uint32, blob []byte) error
	Delete(ctx context.Context, key uint32) error
	Close() error
}

// Open returns the store configured by cfg.
func Open(cfg config.Storage) (Store, error) {
	log.Debug().Str("engine", cfg.Engine).Msg("opening blob store")

	switch cfg.Engine {
	case config.EngineMemory:
		return NewMemory(), nil
	case config.EngineSQLite:
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}

		return openGorm(sqlite.Open(sqliteDSN(cfg.Path)))
	case config.EngineMySQL:
		return openGorm(gormmysql.Open(dsn.MySQL(cfg)))
	case config.EnginePostgres:
		return openGorm(gormpostgres.Open(dsn.Postgres(cfg)))
	case config.EngineKVMySQL:
		return NewKV(mysql.New(mysql.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         cfg.Table,
		})), nil
	case config.EngineKVPostgres:
		return NewKV(postgres.New(postgres.Config{
			ConnectionURI: dsn.Postgres(cfg),
			Table:         cfg.Table,
		})), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.Engine)
	}
}

func openGorm(dialector gorm.Dialector) (Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return NewGorm(db)
}

// sqliteDSN makes a second process writing the same file wait for the lock instead of
// failing with SQLITE_BUSY.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") || strings.HasPrefix(path, ":memory:") {
		return path
	}

	return path + "?_pragma=busy_timeout(" + strconv.Itoa(busyTimeoutMS) + ")"
}

// ensureDir creates the parent directory of a sqlite database file.
func ensureDir(path string) error {
	if path == "" || strings.HasPrefix(path, ":memory:") || strings.HasPrefix(path, "file:") {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}

	return nil
}
