package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"aviablog/internal/db"
	gormModels "aviablog/internal/models/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
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

func mustCreate(t *testing.T, gdb *gorm.DB, value any) {
	t.Helper()
	if err := gdb.Create(value).Error; err != nil {
		t.Fatalf("failed to create %T: %v", value, err)
	}
}

func TestFindByNaturalKeyMissReturnsNil(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()

	trip, err := NewTripRepository(gdb).FindByNaturalKey(ctx, 1, 1)
	if err != nil {
		t.Fatalf("FindByNaturalKey failed: %v", err)
	}
	if trip != nil {
		t.Errorf("expected nil on miss, got %+v", trip)
	}

	at, err := NewAircraftTypeRepository(gdb).FindByNaturalKey(ctx, "Airbus", "A320")
	if err != nil {
		t.Fatalf("FindByNaturalKey failed: %v", err)
	}
	if at != nil {
		t.Errorf("expected nil on miss, got %+v", at)
	}
}

func TestGetByIDMissFailsWithNotFound(t *testing.T) {
	gdb := newTestDB(t)

	_, err := NewTripRepository(gdb).GetByID(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTripCreateDerivesSlugOnce(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()

	user := &gormModels.User{Username: "alice"}
	mustCreate(t, gdb, user)
	flight := &gormModels.Flight{FlightNumber: "LH123", Date: time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)}
	mustCreate(t, gdb, flight)

	repo := NewTripRepository(gdb)
	trip := &gormModels.UserTrip{FlightID: flight.ID, PassengerID: user.ID}
	if err := repo.Create(ctx, trip, flight, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if trip.Slug != "lh123-2026-03-14-alice" {
		t.Errorf("unexpected derived slug %q", trip.Slug)
	}

	// A caller-provided slug wins and is never recomputed.
	user2 := &gormModels.User{Username: "bob"}
	mustCreate(t, gdb, user2)
	trip2 := &gormModels.UserTrip{FlightID: flight.ID, PassengerID: user2.ID, Slug: "custom-slug"}
	if err := repo.Create(ctx, trip2, flight, user2); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if trip2.Slug != "custom-slug" {
		t.Errorf("expected provided slug kept, got %q", trip2.Slug)
	}
}

func TestTripCreateDuplicateNaturalKey(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()

	user := &gormModels.User{Username: "alice"}
	mustCreate(t, gdb, user)
	flight := &gormModels.Flight{FlightNumber: "LH123", Date: time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)}
	mustCreate(t, gdb, flight)

	repo := NewTripRepository(gdb)
	if err := repo.Create(ctx, &gormModels.UserTrip{FlightID: flight.ID, PassengerID: user.ID}, flight, user); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	err := repo.Create(ctx, &gormModels.UserTrip{FlightID: flight.ID, PassengerID: user.ID, Slug: "other"}, flight, user)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestAirlineDeleteDetachesFleet(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()

	airline := &gormModels.Airline{Name: "Lufthansa"}
	mustCreate(t, gdb, airline)
	airframe := &gormModels.Airframe{SerialNumber: "SN-100", RegistrationNumber: "D-AIZZ", AirlineID: &airline.ID}
	mustCreate(t, gdb, airframe)

	if err := NewAirlineRepository(gdb).Delete(ctx, airline.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var reloaded gormModels.Airframe
	if err := gdb.First(&reloaded, airframe.ID).Error; err != nil {
		t.Fatalf("airframe must survive airline delete: %v", err)
	}
	if reloaded.AirlineID != nil {
		t.Errorf("expected airline reference cleared, got %v", *reloaded.AirlineID)
	}
}

func TestFlightDeleteTakesOrphanedAirframe(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()

	airframe := &gormModels.Airframe{SerialNumber: "SN-100", RegistrationNumber: "D-AIZZ", Photo: "airframes/lufthansa/d-aizz.jpg"}
	mustCreate(t, gdb, airframe)

	flight := &gormModels.Flight{FlightNumber: "LH123", Date: time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC), AirframeID: &airframe.ID}
	mustCreate(t, gdb, flight)
	mustCreate(t, gdb, &gormModels.FlightInfo{FlightID: flight.ID, Status: "Departure", AirportCode: "FRA", Runway: "25C"})

	keeper := &gormModels.Flight{FlightNumber: "LH124", Date: time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), AirframeID: &airframe.ID}
	mustCreate(t, gdb, keeper)

	repo := NewFlightRepository(gdb)

	// Another flight still references the airframe: no blobs orphaned.
	blobs, err := repo.Delete(ctx, flight)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(blobs) != 0 {
		t.Errorf("expected no orphaned blobs, got %v", blobs)
	}
	var infos int64
	gdb.Model(&gormModels.FlightInfo{}).Count(&infos)
	if infos != 0 {
		t.Errorf("expected flight infos removed, got %d", infos)
	}

	// Last reference gone: the airframe and its photo key fall out.
	blobs, err = repo.Delete(ctx, keeper)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(blobs) != 1 || blobs[0] != "airframes/lufthansa/d-aizz.jpg" {
		t.Errorf("expected airframe photo orphaned, got %v", blobs)
	}
	var airframes int64
	gdb.Model(&gormModels.Airframe{}).Count(&airframes)
	if airframes != 0 {
		t.Errorf("expected airframe removed, got %d", airframes)
	}
}
