package database

import (
	"go-parts-inventory/internal/model"

	"gorm.io/gorm"
)

// Models lists every table owned by the API.
var Models = []interface{}{
	&model.User{},
	&model.Asset{},
	&model.Part{},
	&model.PartRecord{},
}

// AutoMigrate creates or updates the tables and indexes.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}
