package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"aviablog/internal/auth"
	"aviablog/internal/blob"
	"aviablog/internal/common"
	"aviablog/internal/db"
	"aviablog/internal/metrics"
	"aviablog/internal/models/dtos"
	gormModels "aviablog/internal/models/gorm"
	"aviablog/internal/services"
)

// promauto registers into the default registry, so the package shares one.
var testMetrics = metrics.NewMetricsRegistry()

type testServer struct {
	router *chi.Mux
	gdb    *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", name)

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

	sdb, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("failed to open sqlx test db: %v", err)
	}
	t.Cleanup(func() { _ = sdb.Close() })

	cache := common.NewCacheService(60, 120, testMetrics)
	store := blob.NewMemory()

	feedSvc := services.NewFeedService(gdb, cache, time.Minute)
	statsSvc := services.NewStatsService(sdb, cache, time.Minute)
	detailSvc := services.NewTripDetailService(gdb)
	saveSvc := services.NewTripSaveService(gdb, store, testMetrics)

	r := chi.NewRouter()
	r.Get("/api/v1/feed", HomeHandler(feedSvc, statsSvc))
	r.Get("/api/v1/trips/{slug}", TripDetailHandler(detailSvc))
	r.Post("/api/v1/trips", AddTripHandler(saveSvc, feedSvc, statsSvc, testMetrics))
	r.Put("/api/v1/trips/{slug}", UpdateTripHandler(saveSvc, detailSvc, feedSvc, statsSvc, testMetrics))
	r.Delete("/api/v1/trips/{slug}", DeleteTripHandler(saveSvc, feedSvc, statsSvc, testMetrics))

	return &testServer{router: r, gdb: gdb}
}

func (s *testServer) seedUser(t *testing.T, username string) *gormModels.User {
	t.Helper()
	u := &gormModels.User{Username: username}
	if err := s.gdb.Create(u).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return u
}

func (s *testServer) do(t *testing.T, req *http.Request, as *gormModels.User) *httptest.ResponseRecorder {
	t.Helper()
	if as != nil {
		ctx := auth.SetCurrentUser(req.Context(), auth.CurrentUser{UserID: as.ID, Username: as.Username})
		req = req.WithContext(ctx)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func addTripFields() map[string]string {
	return map[string]string{
		"manufacturer":           "Airbus",
		"generic_type":           "A320",
		"airline_name":           "Lufthansa",
		"serial_number":          "SN-100",
		"registration_number":    "D-AIZZ",
		"flight_number":          "LH123",
		"date":                   "2026-03-14",
		"seat":                   "12A",
		"drinks":                 "",
		"appetizer":              "Salad",
		"main_course":            "Pasta",
		"dessert":                "Cake",
		"departure_airport_code": "FRA",
		"departure_runway":       "25C",
		"arrival_airport_code":   "JFK",
		"arrival_runway":         "04L",
	}
}

func TestTripLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.seedUser(t, "alice")
	mallory := srv.seedUser(t, "mallory")

	// Add
	body, contentType := buildMultipart(t, addTripFields(), []formFile{
		{"aircraft_photo", "plane.jpg", "bytes"},
	})
	req := httptest.NewRequest("POST", "/api/v1/trips", body)
	req.Header.Set("Content-Type", contentType)
	rr := srv.do(t, req, alice)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var created dtos.APIResponse
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	data, ok := created.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data payload %v", created.Data)
	}
	slug, _ := data["usertripslug"].(string)
	if slug != "lh123-2026-03-14-alice" {
		t.Fatalf("unexpected slug %q", slug)
	}

	// Detail
	rr = srv.do(t, httptest.NewRequest("GET", "/api/v1/trips/"+slug, nil), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	// Update by a non-owner is rejected.
	body, contentType = buildMultipart(t, addTripFields(), nil)
	req = httptest.NewRequest("PUT", "/api/v1/trips/"+slug, body)
	req.Header.Set("Content-Type", contentType)
	rr = srv.do(t, req, mallory)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", rr.Code)
	}

	// Delete by a non-owner is rejected, by the owner it lands.
	rr = srv.do(t, httptest.NewRequest("DELETE", "/api/v1/trips/"+slug, nil), mallory)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner delete, got %d", rr.Code)
	}
	rr = srv.do(t, httptest.NewRequest("DELETE", "/api/v1/trips/"+slug, nil), alice)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = srv.do(t, httptest.NewRequest("GET", "/api/v1/trips/"+slug, nil), nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}

	var trips int64
	if err := srv.gdb.Model(&gormModels.UserTrip{}).Count(&trips).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if trips != 0 {
		t.Errorf("expected no trips left, got %d", trips)
	}
}

func TestAddTripValidationOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.seedUser(t, "alice")

	fields := addTripFields()
	delete(fields, "flight_number")
	delete(fields, "date")

	body, contentType := buildMultipart(t, fields, nil)
	req := httptest.NewRequest("POST", "/api/v1/trips", body)
	req.Header.Set("Content-Type", contentType)
	rr := srv.do(t, req, alice)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp dtos.APIResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ERROR" {
		t.Errorf("expected ERROR status, got %q", resp.Status)
	}
}

func TestUnauthenticatedWriteRejected(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := buildMultipart(t, addTripFields(), nil)
	req := httptest.NewRequest("POST", "/api/v1/trips", body)
	req.Header.Set("Content-Type", contentType)
	rr := srv.do(t, req, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a user, got %d", rr.Code)
	}
}
