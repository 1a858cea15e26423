package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/apex/log"
	_ "github.com/go-sql-driver/mysql"

	"ecowatch/config"
	"ecowatch/models"
)

// Database wraps the read-only officials directory
type Database struct {
	db *sql.DB
}

// Open connects to MySQL using the DB_* settings
func Open(cfg *config.Config) (*Database, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Infof("Database connected to %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
	return New(db), nil
}

// New wraps an existing handle
func New(db *sql.DB) *Database {
	return &Database{db: db}
}

func (d *Database) Close() error {
	return d.db.Close()
}

// ListOfficials returns the active officials ordered by id
func (d *Database) ListOfficials(ctx context.Context) ([]models.Official, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, title, COALESCE(email, '')
		FROM officials
		WHERE active = TRUE
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query officials: %w", err)
	}
	defer rows.Close()

	officials := []models.Official{}
	for rows.Next() {
		var o models.Official
		if err := rows.Scan(&o.ID, &o.Name, &o.Title, &o.Email); err != nil {
			return nil, fmt.Errorf("failed to scan official: %w", err)
		}
		officials = append(officials, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate officials: %w", err)
	}
	return officials, nil
}

// LoadOfficials returns the directory from MySQL, or fallback when no
// database is configured, the connection fails or the table is empty.
func LoadOfficials(ctx context.Context, cfg *config.Config, fallback []models.Official) []models.Official {
	if cfg.DBHost == "" {
		log.Info("DB_HOST not set, using built-in officials directory")
		return fallback
	}
	d, err := Open(cfg)
	if err != nil {
		log.WithError(err).Warn("Officials database unavailable, using built-in directory")
		return fallback
	}
	defer d.Close()
	return officialsOrFallback(ctx, d, fallback)
}

func officialsOrFallback(ctx context.Context, d *Database, fallback []models.Official) []models.Official {
	officials, err := d.ListOfficials(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to load officials, using built-in directory")
		return fallback
	}
	if len(officials) == 0 {
		log.Warn("Officials table is empty, using built-in directory")
		return fallback
	}
	log.Infof("Loaded %d officials from database", len(officials))
	return officials
}
