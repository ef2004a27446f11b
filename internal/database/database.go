// Package database provides the MySQL connection and schema migrations.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/teesbyshelsea/storefront/internal/config"
)

// DB wraps the SQL connection pool.
type DB struct {
	*sql.DB
	logger *zap.Logger
	dsn    string
}

// New opens and pings the MySQL connection.
func New(cfg *config.Config, logger *zap.Logger) (*DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
	)

	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.DBName),
	)

	return &DB{DB: sqlDB, logger: logger, dsn: dsn}, nil
}

// newMigrator builds a migrate instance on a dedicated connection so a
// failed migration cannot poison the main pool.
func (db *DB) newMigrator(migrationsDir string) (*migrate.Migrate, *sql.DB, error) {
	migrateDB, err := sql.Open("mysql", db.dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database for migration: %w", err)
	}

	driver, err := mysql.WithInstance(migrateDB, &mysql.Config{})
	if err != nil {
		_ = migrateDB.Close()
		return nil, nil, fmt.Errorf("create mysql driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "mysql", driver)
	if err != nil {
		_ = migrateDB.Close()
		return nil, nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return m, migrateDB, nil
}

// RunMigrations applies all pending up migrations. Run at startup, before
// the HTTP server accepts requests.
func (db *DB) RunMigrations(migrationsDir string) error {
	m, migrateDB, err := db.newMigrator(migrationsDir)
	if err != nil {
		return err
	}
	defer migrateDB.Close()
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d, fix manually", version)
	}

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			db.logger.Info("no new migrations to apply")
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("get new version: %w", err)
	}

	db.logger.Info("migrations completed",
		zap.Uint("from_version", version),
		zap.Uint("to_version", newVersion),
	)
	return nil
}

// MigrateDown rolls back the given number of migration steps.
func (db *DB) MigrateDown(migrationsDir string, steps int) error {
	m, migrateDB, err := db.newMigrator(migrationsDir)
	if err != nil {
		return err
	}
	defer migrateDB.Close()
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", version)
	}

	if err := m.Steps(-steps); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}

	db.logger.Info("migration rollback completed", zap.Uint("from_version", version), zap.Int("steps", steps))
	return nil
}

// ForceVersion overwrites the recorded migration version, clearing dirty
// state. Use only to repair a failed migration.
func (db *DB) ForceVersion(migrationsDir string, version uint) error {
	m, migrateDB, err := db.newMigrator(migrationsDir)
	if err != nil {
		return err
	}
	defer migrateDB.Close()
	defer m.Close()

	if err := m.Force(int(version)); err != nil {
		return fmt.Errorf("force migration version: %w", err)
	}

	db.logger.Info("migration version forced", zap.Uint("version", version))
	return nil
}
