package db

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"github.com/fatflowers/vcard/internal/models"
	cfgpkg "github.com/fatflowers/vcard/pkg/config"
	gormzap "github.com/fatflowers/vcard/pkg/gormlog"
)

// Dialector picks the gorm driver for the configured database.
func Dialector(cfg cfgpkg.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case cfgpkg.DBDriverPostgres, "":
		return postgres.Open(cfg.DSN), nil
	case cfgpkg.DBDriverMySQL:
		return mysql.Open(cfg.DSN), nil
	case cfgpkg.DBDriverSQLite:
		// modernc registers the pure Go driver as "sqlite"
		return sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: cfg.DSN}), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func NewDB(l *zap.SugaredLogger, cfg *cfgpkg.Config) (*gorm.DB, error) {
	if cfg.Database.DSN == "" {
		l.Error("database DSN is empty")
		return nil, gorm.ErrInvalidDB
	}
	dialector, err := Dialector(cfg.Database)
	if err != nil {
		return nil, err
	}
	logger := gormzap.New(l).LogMode(gormzap.LevelFor(cfg.Log.Level))
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger})
	if err != nil {
		l.Errorf("failed to connect database: %v", err)
		return nil, err
	}
	l.Infow("connected to database", "driver", dialector.Name())
	return db, nil
}

var Module = fx.Options(
	fx.Provide(NewDB),
	fx.Invoke(AutoMigrate),
	fx.Invoke(registerDBClose),
)

// AutoMigrate runs GORM migrations on startup
func AutoMigrate(l *zap.SugaredLogger, db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Profile{},
		&models.SavedContact{},
		&models.AnalyticsEvent{},
		&models.ShortURL{},
		&models.Subscription{},
		&models.SubscriptionLog{},
	); err != nil {
		l.Errorf("automigrate failed: %v", err)
		return err
	}
	l.Infow("automigrate completed")
	return nil
}

// registerDBClose ensures the underlying *sql.DB is closed on shutdown
func registerDBClose(lc fx.Lifecycle, l *zap.SugaredLogger, gdb *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				l.Warnw("gorm: get sql.DB failed", "err", err)
				return nil
			}
			l.Infow("closing database connection pool")
			return sqlDB.Close()
		},
	})
}
