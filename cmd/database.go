package cmd

import (
	"fmt"

	"github.com/frahmantamala/asset-tracking/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database shares one connection pool between the sqlx handle used for health
// checks and aggregate queries and the gorm handle used by the repositories.
type Database struct {
	SQL *sqlx.DB
	ORM *gorm.DB
}

func (d *Database) Close() error {
	return d.SQL.Close()
}

// sqlDriverName maps the configured driver to its database/sql name. The
// sqlite3 driver is registered by the gorm sqlite dialector.
func sqlDriverName(driver string) string {
	if driver == internal.DriverSQLite {
		return "sqlite3"
	}
	return "pgx"
}

func initDB(cfg internal.DatabaseConfig) (*Database, error) {
	dbConn, err := sqlx.Connect(sqlDriverName(cfg.Driver), cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	if cfg.Driver == internal.DriverSQLite {
		// sqlite allows a single writer at a time
		dbConn.SetMaxOpenConns(1)
	}

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.DriverSQLite:
		dialector = &sqlite.Dialector{Conn: dbConn.DB}
	default:
		dialector = postgres.New(postgres.Config{Conn: dbConn.DB})
	}

	orm, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return &Database{SQL: dbConn, ORM: orm}, nil
}
