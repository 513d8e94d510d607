package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"aviablog/internal/db"
	"aviablog/internal/models/dtos"
	gormModels "aviablog/internal/models/gorm"
)

// newTestDB opens a shared in-memory sqlite database named after the test,
// so the gorm pool and a sqlx pool in the same test see the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(testDSN(t)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return gdb
}

func testDSN(t *testing.T) string {
	name := strings.ReplaceAll(t.Name(), "/", "_")
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

func seedUser(t *testing.T, gdb *gorm.DB, username string) *gormModels.User {
	t.Helper()

	u := &gormModels.User{Username: username, FirstName: "Test", LastName: "Passenger"}
	if err := gdb.WithContext(context.Background()).Create(u).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return u
}

func countRows(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	if err := gdb.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}

func testDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// fullTripInput builds a complete add-path submission.
func fullTripInput() *dtos.TripSaveInput {
	flightTime := "08:45"
	seat := "12A"
	return &dtos.TripSaveInput{
		AircraftType: &dtos.AircraftTypeFields{Manufacturer: "Airbus", GenericType: "A320"},
		Airline:      &dtos.AirlineFields{Name: "Lufthansa"},
		Airframe: &dtos.AirframeFields{
			SerialNumber:       "SN-100",
			RegistrationNumber: "D-AIZZ",
			Photo:              &dtos.Upload{Filename: "plane.JPG", Data: []byte("airframe-bytes")},
		},
		Flight: &dtos.FlightFields{
			FlightNumber: "LH123",
			Date:         testDate(2026, time.March, 14),
			FlightTime:   &flightTime,
		},
		Trip: &dtos.TripFields{Seat: &seat},
		Meal: &dtos.MealFields{
			Appetizer:  "Salad",
			MainCourse: "Pasta",
			Dessert:    "Cake",
			Photo:      &dtos.Upload{Filename: "meal.png", Data: []byte("meal-bytes")},
		},
		Departure: &dtos.FlightInfoFields{AirportCode: "FRA", Runway: "25C"},
		Arrival:   &dtos.FlightInfoFields{AirportCode: "JFK", Runway: "04L"},
		TrackImages: []dtos.TrackImageIntent{
			{Upload: &dtos.Upload{Filename: "track1.png", Data: []byte("track-bytes")}},
		},
	}
}
