package database

import (
	"fmt"
	"strings"

	"github.com/Liyulingyue/PaddleLabel/internal/logger"
	"github.com/Liyulingyue/PaddleLabel/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Options selects the driver and connection for Open.
type Options struct {
	Driver   string // sqlite or mysql
	DSN      string
	LogLevel string // application log level, mapped onto gorm's logger
}

// Open connects to the database and runs migrations.
func Open(opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLevel(opts.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", opts.Driver, err)
	}

	if opts.Driver == "sqlite" {
		// Cascades and the label delete guard rely on foreign keys.
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate auto-migrates every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// InitDB initializes the global database connection and runs migrations
func InitDB(opts Options) error {
	db, err := Open(opts)
	if err != nil {
		return err
	}
	DB = db
	logger.L().Info("database connected and migrated",
		zap.String("driver", opts.Driver),
	)
	return nil
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		// glebarez/sqlite is a pure Go implementation (no CGO required)
		if dsn != ":memory:" && !strings.Contains(dsn, "_pragma=foreign_keys") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "_pragma=foreign_keys(1)"
		}
		return sqlite.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func gormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return gormlogger.Info
	case "info", "warn":
		return gormlogger.Warn
	case "":
		return gormlogger.Silent
	default:
		return gormlogger.Error
	}
}
