// Package database manages the PostgreSQL connection and schema migrations.
package database

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ay-man-sup/personal-finance-tracker/internal/logger"
)

// Manager owns the database handle for the lifetime of the process.
type Manager struct {
	DB     *gorm.DB
	config *Config
}

// NewManager opens a connection using the given config.
func NewManager(cfg *Config) (*Manager, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	return &Manager{DB: db, config: cfg}, nil
}

// RunMigrations applies all pending migrations from the migrations directory.
func (m *Manager) RunMigrations(migrationsPath string) error {
	mig, err := migrate.New("file://"+migrationsPath, m.config.MigrateURL())
	if err != nil {
		return err
	}
	defer mig.Close()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	logger.Get().Infow("migrations applied", "path", migrationsPath)
	return nil
}

// Close closes the underlying connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
