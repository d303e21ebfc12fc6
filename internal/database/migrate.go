package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/plateful/backend/internal/model"
)

// AutoMigrate creates the schema through GORM. Production Postgres runs the
// SQL files under migrations/ via cmd/migrate instead; this path serves
// SQLite test databases and local bootstrapping.
func AutoMigrate(db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		log.Printf("Using GORM auto-migration for SQLite")
	}
	return db.AutoMigrate(
		&model.Recipe{},
		&model.RecipeFavorite{},
	)
}
