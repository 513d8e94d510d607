package api

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"
)

type formFile struct {
	field    string
	filename string
	content  string
}

func buildMultipart(t *testing.T, fields map[string]string, files []formFile) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("failed to write field %s: %v", name, err)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			t.Fatalf("failed to create file part %s: %v", file.field, err)
		}
		if _, err := part.Write([]byte(file.content)); err != nil {
			t.Fatalf("failed to write file %s: %v", file.field, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestParseTripFormFullSubmission(t *testing.T) {
	fields := map[string]string{
		"manufacturer":           "Airbus",
		"generic_type":           "A320",
		"airline_name":           "Lufthansa",
		"serial_number":          "SN-100",
		"registration_number":    "D-AIZZ",
		"flight_number":          "LH123",
		"date":                   "2026-03-14",
		"flight_time":            "08:45",
		"seat":                   "12A",
		"neighbors":              "",
		"comments":               "",
		"price":                  "450",
		"drinks":                 "Juice",
		"appetizer":              "Salad",
		"main_course":            "Pasta",
		"dessert":                "Cake",
		"meal_price":             "",
		"departure_airport_code": "fra",
		"departure_runway":       "25C",
		"departure_gate":         "A52",
		"arrival_airport_code":   "JFK",
		"arrival_runway":         "04L",
	}
	files := []formFile{
		{"aircraft_photo", "plane.JPG", "airframe-bytes"},
		{"meal_photo", "meal.png", "meal-bytes"},
		{"track_images", "track1.png", "track-one"},
		{"track_images", "track2.png", "track-two"},
	}

	body, contentType := buildMultipart(t, fields, files)
	req := httptest.NewRequest("POST", "/api/v1/trips", body)
	req.Header.Set("Content-Type", contentType)

	in, ids, err := parseTripForm(req)
	if err != nil {
		t.Fatalf("parseTripForm failed: %v", err)
	}

	if ids.TripID != nil || ids.FlightID != nil {
		t.Errorf("expected empty id bag on add, got %+v", ids)
	}

	if in.AircraftType == nil || in.AircraftType.Manufacturer != "Airbus" {
		t.Fatalf("unexpected aircraft type %+v", in.AircraftType)
	}
	if in.Airframe == nil || in.Airframe.Photo == nil || in.Airframe.Photo.Filename != "plane.JPG" {
		t.Fatalf("unexpected airframe %+v", in.Airframe)
	}
	if in.Flight == nil || in.Flight.Date.Format("2006-01-02") != "2026-03-14" {
		t.Fatalf("unexpected flight %+v", in.Flight)
	}
	if in.Trip == nil || in.Trip.Price == nil || *in.Trip.Price != 450 {
		t.Fatalf("unexpected trip %+v", in.Trip)
	}
	if in.Trip.Neighbors != nil {
		t.Errorf("blank optional field must map to nil, got %v", *in.Trip.Neighbors)
	}
	if in.Meal == nil || in.Meal.MealPrice != nil || in.Meal.Drinks != "Juice" {
		t.Fatalf("unexpected meal %+v", in.Meal)
	}
	if in.Departure == nil || in.Departure.AirportCode != "FRA" {
		t.Fatalf("airport codes must be upper-cased, got %+v", in.Departure)
	}
	if in.Departure.Gate == nil || *in.Departure.Gate != "A52" {
		t.Errorf("unexpected gate %v", in.Departure.Gate)
	}
	if len(in.TrackImages) != 2 {
		t.Fatalf("expected 2 track intents, got %d", len(in.TrackImages))
	}
	if in.TrackImages[0].Upload.Filename != "track1.png" || in.TrackImages[1].Upload.Filename != "track2.png" {
		t.Errorf("track upload order lost: %+v", in.TrackImages)
	}
}

func TestParseTripFormOmittedSlots(t *testing.T) {
	fields := map[string]string{
		"trip_id":             "7",
		"meal_id":             "9",
		"flight_id":           "3",
		"seat":                "1A",
		"track_image_4_clear": "on",
	}
	body, contentType := buildMultipart(t, fields, []formFile{
		{"track_image_5", "new.png", "replacement"},
	})
	req := httptest.NewRequest("PUT", "/api/v1/trips/some-slug", body)
	req.Header.Set("Content-Type", contentType)

	in, ids, err := parseTripForm(req)
	if err != nil {
		t.Fatalf("parseTripForm failed: %v", err)
	}

	if ids.TripID == nil || *ids.TripID != 7 {
		t.Errorf("expected trip id 7, got %v", ids.TripID)
	}
	if ids.MealID == nil || *ids.MealID != 9 {
		t.Errorf("expected meal id 9, got %v", ids.MealID)
	}

	// No meal fields submitted: nil bag plus the id is the delete request.
	if in.Meal != nil {
		t.Errorf("expected nil meal bag, got %+v", in.Meal)
	}
	if in.AircraftType != nil || in.Flight != nil {
		t.Errorf("unsubmitted slots must be nil, got %+v %+v", in.AircraftType, in.Flight)
	}
	if in.Trip == nil || in.Trip.Seat == nil || *in.Trip.Seat != "1A" {
		t.Fatalf("unexpected trip bag %+v", in.Trip)
	}

	if len(in.TrackImages) != 2 {
		t.Fatalf("expected 2 intents, got %+v", in.TrackImages)
	}
	var sawClear, sawReplace bool
	for _, intent := range in.TrackImages {
		switch {
		case intent.Clear && intent.ID != nil && *intent.ID == 4:
			sawClear = true
		case intent.Upload != nil && intent.ID != nil && *intent.ID == 5:
			sawReplace = true
		}
	}
	if !sawClear || !sawReplace {
		t.Errorf("missing intents: clear=%v replace=%v", sawClear, sawReplace)
	}
}

func TestParseTripFormBadValues(t *testing.T) {
	for name, fields := range map[string]map[string]string{
		"bad date":  {"flight_number": "LH1", "date": "14.03.2026"},
		"bad price": {"seat": "1A", "price": "a lot"},
		"bad id":    {"trip_id": "seven"},
	} {
		body, contentType := buildMultipart(t, fields, nil)
		req := httptest.NewRequest("POST", "/api/v1/trips", body)
		req.Header.Set("Content-Type", contentType)

		if _, _, err := parseTripForm(req); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
