package db

import (
	gormModels "aviablog/internal/models/gorm"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every entity table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&gormModels.User{},
		&gormModels.AircraftType{},
		&gormModels.Airline{},
		&gormModels.Airframe{},
		&gormModels.Flight{},
		&gormModels.FlightInfo{},
		&gormModels.UserTrip{},
		&gormModels.Meal{},
		&gormModels.TrackImage{},
	)
}
