package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"aviablog/internal/blob"
	"aviablog/internal/constants"
	"aviablog/internal/models/dtos"
	gormModels "aviablog/internal/models/gorm"
)

func TestLatestCardsNewestFirst(t *testing.T) {
	gdb := newTestDB(t)
	store := blob.NewMemory()
	seedUser(t, gdb, "alice")
	seedUser(t, gdb, "bob")

	saveSvc := NewTripSaveService(gdb, store, nil)
	ctx := context.Background()

	if _, err := saveSvc.Save(ctx, fullTripInput(), dtos.TripSaveIDs{}, "alice"); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	second := fullTripInput()
	second.Meal.Photo = nil
	second.TrackImages = nil
	if _, err := saveSvc.Save(ctx, second, dtos.TripSaveIDs{}, "bob"); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	svc := NewFeedService(gdb, newTestCache(), time.Minute)

	cards, err := svc.LatestCards(ctx, DefaultFeedSize)
	if err != nil {
		t.Fatalf("LatestCards failed: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}

	// Most recently logged trip leads the feed.
	if cards[0].Passenger != "bob" || cards[1].Passenger != "alice" {
		t.Errorf("unexpected order: %s then %s", cards[0].Passenger, cards[1].Passenger)
	}

	card := cards[0]
	if card.Airline != "Lufthansa" {
		t.Errorf("expected airline Lufthansa, got %q", card.Airline)
	}
	if card.AircraftType != "Airbus A320" {
		t.Errorf("expected type label, got %q", card.AircraftType)
	}
	if card.Departure != "FRA" || card.Destination != "JFK" {
		t.Errorf("unexpected route %s-%s", card.Departure, card.Destination)
	}
	if card.PhotoURL != "/media/airframes/lufthansa/d-aizz.jpg" {
		t.Errorf("unexpected photo url %q", card.PhotoURL)
	}
	if card.TripSlug != "lh123-2026-03-14-bob" {
		t.Errorf("unexpected slug %q", card.TripSlug)
	}
}

func TestLatestCardsSkipsBrokenChain(t *testing.T) {
	gdb := newTestDB(t)
	store := blob.NewMemory()
	alice := seedUser(t, gdb, "alice")

	saveSvc := NewTripSaveService(gdb, store, nil)
	ctx := context.Background()

	if _, err := saveSvc.Save(ctx, fullTripInput(), dtos.TripSaveIDs{}, "alice"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// A trip on a flight with no airframe cannot be rendered as a card.
	orphanFlight := &gormModels.Flight{FlightNumber: "XX1", Date: testDate(2026, time.May, 1)}
	if err := gdb.Create(orphanFlight).Error; err != nil {
		t.Fatalf("failed to create orphan flight: %v", err)
	}
	orphanTrip := &gormModels.UserTrip{FlightID: orphanFlight.ID, PassengerID: alice.ID, Slug: "xx1-2026-05-01-alice"}
	if err := gdb.Create(orphanTrip).Error; err != nil {
		t.Fatalf("failed to create orphan trip: %v", err)
	}

	svc := NewFeedService(gdb, newTestCache(), time.Minute)

	cards, err := svc.LatestCards(ctx, DefaultFeedSize)
	if err != nil {
		t.Fatalf("LatestCards failed: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected the broken trip skipped, got %d cards", len(cards))
	}
	if cards[0].TripSlug != "lh123-2026-03-14-alice" {
		t.Errorf("unexpected surviving card %q", cards[0].TripSlug)
	}
}

func TestLatestCardsUsesCache(t *testing.T) {
	gdb := newTestDB(t)
	store := blob.NewMemory()
	seedUser(t, gdb, "alice")

	saveSvc := NewTripSaveService(gdb, store, nil)
	ctx := context.Background()
	if _, err := saveSvc.Save(ctx, fullTripInput(), dtos.TripSaveIDs{}, "alice"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cache := newTestCache()
	svc := NewFeedService(gdb, cache, time.Minute)

	if _, err := svc.LatestCards(ctx, DefaultFeedSize); err != nil {
		t.Fatalf("LatestCards failed: %v", err)
	}

	// Remove the row behind the cache's back: the cached feed still serves.
	if err := gdb.Exec("DELETE FROM user_trips").Error; err != nil {
		t.Fatalf("failed to clear trips: %v", err)
	}
	cards, err := svc.LatestCards(ctx, DefaultFeedSize)
	if err != nil {
		t.Fatalf("cached LatestCards failed: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected cached card, got %d", len(cards))
	}

	// Invalidation drops the entry, the next read sees the store.
	svc.Invalidate()
	cards, err = svc.LatestCards(ctx, DefaultFeedSize)
	if err != nil {
		t.Fatalf("LatestCards after invalidate failed: %v", err)
	}
	if len(cards) != 0 {
		t.Fatalf("expected empty feed after invalidate, got %d", len(cards))
	}
}

func TestLatestCardsRepairsForeignCacheShape(t *testing.T) {
	gdb := newTestDB(t)
	store := blob.NewMemory()
	seedUser(t, gdb, "alice")

	saveSvc := NewTripSaveService(gdb, store, nil)
	ctx := context.Background()
	if _, err := saveSvc.Save(ctx, fullTripInput(), dtos.TripSaveIDs{}, "alice"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cache := newTestCache()
	svc := NewFeedService(gdb, cache, time.Minute)

	// A redis backend stores JSON, so a hit can come back as generic maps
	// instead of the typed slice.
	key := fmt.Sprintf("%s:%d", constants.CacheKeyLatestCards, DefaultFeedSize)
	cache.Set(key, []interface{}{map[string]interface{}{"usertripslug": "lh123-2026-03-14-alice"}}, time.Minute)

	cards, err := svc.LatestCards(ctx, DefaultFeedSize)
	if err != nil {
		t.Fatalf("LatestCards failed: %v", err)
	}
	if len(cards) != 1 || cards[0].Passenger != "alice" {
		t.Fatalf("expected rebuilt cards, got %+v", cards)
	}

	// The foreign entry must be overwritten with the typed slice so the
	// cache serves later requests again.
	val, found := cache.Get(key)
	if !found {
		t.Fatal("expected cache entry after rebuild")
	}
	if _, ok := val.([]dtos.FlightCard); !ok {
		t.Errorf("expected typed cache entry, got %T", val)
	}
}
