package configuration

import (
	"github.com/srikiran1905s/FEDF/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB opens the Postgres connection and migrates the schema.
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := MigrateModels(db); err != nil {
		return nil, err
	}
	return db, nil
}

// MigrateModels runs the auto migration for every persisted model.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Appointment{},
		&models.Vitals{},
		&models.HealthRecord{},
		&models.Prescription{},
	)
}
