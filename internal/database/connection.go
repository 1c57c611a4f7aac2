package database

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"comanda-go/internal/models"
)

// Connect opens the SQLite database, runs migrations and seeds the catalog
// if it is empty
func Connect(path string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	log.Infof("Database connected: %s", path)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := SeedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema for all persisted models
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Category{},
		&models.Cardapio{},
		&models.Item{},
		&models.ItemCardapio{},
		&models.Pedido{},
		&models.ItemPedido{},
	)
	if err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}
