package helpers

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/andrescamacho/entries-go/internal/adapters/sqlstore"
	"github.com/andrescamacho/entries-go/internal/infrastructure/config"
	"github.com/andrescamacho/entries-go/internal/infrastructure/database"
)

// NewTestDB creates a new SQLite in-memory database for testing
func NewTestDB(t *testing.T) *gorm.DB {
	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Cleanup after test
	if t != nil {
		t.Cleanup(func() {
			database.Close(db)
		})
	}

	return db
}

// NewTestSQLRepository creates a migrated goqu/sqlx repository over an in-memory SQLite database
func NewTestSQLRepository(t *testing.T) *sqlstore.SQLEntryRepository {
	t.Helper()

	db, err := database.NewSQLConnection(&config.DatabaseConfig{Type: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	repo := sqlstore.NewSQLEntryRepository(db, sqlstore.DialectSQLite)
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return repo
}
