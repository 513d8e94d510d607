package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aviablog/internal/models/dtos"
)

const maxUploadMemory = 32 << 20

// tripForm wraps one parsed multipart submission. Field presence follows
// form semantics: a submitted key with an empty value is present, an
// unsubmitted key is absent, and an absent slot means "leave or delete".
type tripForm struct {
	form *multipart.Form
}

func parseTripForm(r *http.Request) (*dtos.TripSaveInput, dtos.TripSaveIDs, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, dtos.TripSaveIDs{}, fmt.Errorf("failed to parse form: %w", err)
	}

	f := tripForm{form: r.MultipartForm}

	ids, err := f.parseIDs()
	if err != nil {
		return nil, dtos.TripSaveIDs{}, err
	}

	in := &dtos.TripSaveInput{}

	if f.has("manufacturer", "generic_type") {
		in.AircraftType = &dtos.AircraftTypeFields{
			Manufacturer: f.str("manufacturer"),
			GenericType:  f.str("generic_type"),
		}
	}

	if f.has("airline_name") {
		in.Airline = &dtos.AirlineFields{Name: f.str("airline_name")}
	}

	if f.has("serial_number", "registration_number") || f.hasFile("aircraft_photo") {
		photo, err := f.file("aircraft_photo")
		if err != nil {
			return nil, ids, err
		}
		in.Airframe = &dtos.AirframeFields{
			SerialNumber:       f.str("serial_number"),
			RegistrationNumber: f.str("registration_number"),
			Photo:              photo,
		}
	}

	if f.has("flight_number", "date", "flight_time") {
		date, err := f.date("date")
		if err != nil {
			return nil, ids, err
		}
		in.Flight = &dtos.FlightFields{
			FlightNumber: f.str("flight_number"),
			Date:         date,
			FlightTime:   f.opt("flight_time"),
		}
	}

	if f.has("seat", "neighbors", "comments", "price") {
		price, err := f.optUint("price")
		if err != nil {
			return nil, ids, err
		}
		in.Trip = &dtos.TripFields{
			Seat:      f.opt("seat"),
			Neighbors: f.opt("neighbors"),
			Comments:  f.opt("comments"),
			Price:     price,
		}
	}

	if f.has("drinks", "appetizer", "main_course", "dessert", "meal_price") || f.hasFile("meal_photo") {
		mealPrice, err := f.optUint("meal_price")
		if err != nil {
			return nil, ids, err
		}
		photo, err := f.file("meal_photo")
		if err != nil {
			return nil, ids, err
		}
		in.Meal = &dtos.MealFields{
			Drinks:     f.str("drinks"),
			Appetizer:  f.str("appetizer"),
			MainCourse: f.str("main_course"),
			Dessert:    f.str("dessert"),
			MealPrice:  mealPrice,
			Photo:      photo,
		}
	}

	if departure, err := f.flightInfo("departure"); err != nil {
		return nil, ids, err
	} else {
		in.Departure = departure
	}
	if arrival, err := f.flightInfo("arrival"); err != nil {
		return nil, ids, err
	} else {
		in.Arrival = arrival
	}

	intents, err := f.trackImageIntents()
	if err != nil {
		return nil, ids, err
	}
	in.TrackImages = intents

	return in, ids, nil
}

func (f tripForm) parseIDs() (dtos.TripSaveIDs, error) {
	var ids dtos.TripSaveIDs
	for key, target := range map[string]**uint{
		"aircraft_type_id": &ids.AircraftTypeID,
		"airline_id":       &ids.AirlineID,
		"airframe_id":      &ids.AirframeID,
		"flight_id":        &ids.FlightID,
		"trip_id":          &ids.TripID,
		"meal_id":          &ids.MealID,
		"departure_id":     &ids.DepartureID,
		"arrival_id":       &ids.ArrivalID,
	} {
		id, err := f.optUint(key)
		if err != nil {
			return ids, err
		}
		*target = id
	}
	return ids, nil
}

// flightInfo builds one leg bag from its prefixed field names, e.g.
// departure_airport_code, departure_runway.
func (f tripForm) flightInfo(prefix string) (*dtos.FlightInfoFields, error) {
	names := []string{
		prefix + "_airport_code", prefix + "_metar", prefix + "_gate",
		prefix + "_is_boarding_bridge", prefix + "_schedule_time",
		prefix + "_actual_time", prefix + "_runway",
	}
	if !f.has(names...) {
		return nil, nil
	}
	return &dtos.FlightInfoFields{
		AirportCode:      strings.ToUpper(f.str(prefix + "_airport_code")),
		Metar:            f.opt(prefix + "_metar"),
		Gate:             f.opt(prefix + "_gate"),
		IsBoardingBridge: f.boolVal(prefix + "_is_boarding_bridge"),
		ScheduleTime:     f.opt(prefix + "_schedule_time"),
		ActualTime:       f.opt(prefix + "_actual_time"),
		Runway:           f.str(prefix + "_runway"),
	}, nil
}

// trackImageIntents maps the attachment fields to intents: new files arrive
// under track_images, replacements as track_image_<id>, removals as a
// truthy track_image_<id>_clear.
func (f tripForm) trackImageIntents() ([]dtos.TrackImageIntent, error) {
	var intents []dtos.TrackImageIntent

	for _, header := range f.form.File["track_images"] {
		upload, err := readUpload(header)
		if err != nil {
			return nil, err
		}
		intents = append(intents, dtos.TrackImageIntent{Upload: upload})
	}

	for key, headers := range f.form.File {
		id, ok := trackImageID(key)
		if !ok || len(headers) == 0 {
			continue
		}
		upload, err := readUpload(headers[0])
		if err != nil {
			return nil, err
		}
		intents = append(intents, dtos.TrackImageIntent{ID: &id, Upload: upload})
	}

	for key := range f.form.Value {
		if !strings.HasSuffix(key, "_clear") {
			continue
		}
		id, ok := trackImageID(strings.TrimSuffix(key, "_clear"))
		if !ok || !f.boolVal(key) {
			continue
		}
		intents = append(intents, dtos.TrackImageIntent{ID: &id, Clear: true})
	}

	return intents, nil
}

// trackImageID extracts N from track_image_N
func trackImageID(key string) (uint, bool) {
	raw, ok := strings.CutPrefix(key, "track_image_")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (f tripForm) has(names ...string) bool {
	for _, name := range names {
		if _, ok := f.form.Value[name]; ok {
			return true
		}
	}
	return false
}

func (f tripForm) hasFile(name string) bool {
	return len(f.form.File[name]) > 0
}

func (f tripForm) str(name string) string {
	if vals, ok := f.form.Value[name]; ok && len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	return ""
}

func (f tripForm) opt(name string) *string {
	if val := f.str(name); val != "" {
		return &val
	}
	return nil
}

func (f tripForm) boolVal(name string) bool {
	switch strings.ToLower(f.str(name)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func (f tripForm) optUint(name string) (*uint, error) {
	raw := f.str(name)
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	id := uint(val)
	return &id, nil
}

func (f tripForm) date(name string) (time.Time, error) {
	raw := f.str(name)
	if raw == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return date, nil
}

func (f tripForm) file(name string) (*dtos.Upload, error) {
	headers := f.form.File[name]
	if len(headers) == 0 {
		return nil, nil
	}
	return readUpload(headers[0])
}

func readUpload(header *multipart.FileHeader) (*dtos.Upload, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", header.Filename, err)
	}
	return &dtos.Upload{Filename: header.Filename, Data: data}, nil
}
