package testdb

import (
	"testing"

	"acopio-backend/internal/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open abre una base SQLite en memoria con el esquema completo migrado.
// Cada llamada entrega una base independiente.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("no se pudo abrir la base en memoria: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("no se pudo migrar el esquema: %v", err)
	}
	return db
}
