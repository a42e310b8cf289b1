package database

import (
	"log"

	"acopio-backend/internal/config"
	"acopio-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("No se pudo conectar a la base de datos: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Error de AutoMigrate: %v", err)
	}

	log.Println("Conexión a base de datos lista. Migración completada.")
}

// Migrate corre AutoMigrate sobre todos los modelos. Lo usan Init y las
// suites de prueba que abren su propia base en memoria.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Partner{},
		&models.Product{},
		&models.Lot{},
		&models.Location{},
		&models.StockQuant{},
		&models.Intake{},
		&models.TransferType{},
		&models.Transfer{},
		&models.TransferMove{},
		&models.TransferMoveDetail{},
		&models.Manifest{},
		&models.ManifestWasteLine{},
		&models.Disposal{},
		&models.DisposalLine{},
		&models.Sequence{},
		&models.AuditLog{},
	)
}
