package dtos

import "time"

// Upload is one file received from the request layer.
type Upload struct {
	Filename string
	Data     []byte
}

// Per-slot field bags for the composite save. A nil bag paired with a
// present id means "delete that record"; a nil bag with a nil id is only
// valid for slots the caller omits entirely.

type AircraftTypeFields struct {
	Manufacturer string
	GenericType  string
}

type AirlineFields struct {
	Name string
}

type AirframeFields struct {
	SerialNumber       string
	RegistrationNumber string
	Photo              *Upload
}

type FlightFields struct {
	FlightNumber string
	Date         time.Time
	FlightTime   *string
}

type TripFields struct {
	Seat      *string
	Neighbors *string
	Comments  *string
	Price     *uint
}

type MealFields struct {
	Drinks     string
	Appetizer  string
	MainCourse string
	Dessert    string
	MealPrice  *uint
	Photo      *Upload
}

type FlightInfoFields struct {
	AirportCode      string
	Metar            *string
	Gate             *string
	IsBoardingBridge bool
	ScheduleTime     *string
	ActualTime       *string
	Runway           string
}

// TrackImageIntent is one attachment instruction: create (no id, upload),
// replace (id + upload), or delete (id + clear). Anything else is a no-op.
type TrackImageIntent struct {
	ID     *uint
	Upload *Upload
	Clear  bool
}

// TripSaveInput is the flat bag of per-slot field values for one composite
// save, plus the attachment intents processed in the same transaction.
type TripSaveInput struct {
	AircraftType *AircraftTypeFields
	Airline      *AirlineFields
	Airframe     *AirframeFields
	Flight       *FlightFields
	Trip         *TripFields
	Meal         *MealFields
	Departure    *FlightInfoFields
	Arrival      *FlightInfoFields
	TrackImages  []TrackImageIntent
}

// TripSaveIDs is the parallel bag of identifiers. A nil entry means
// "new or shared" for its slot; the add path passes the zero value.
type TripSaveIDs struct {
	AircraftTypeID *uint
	AirlineID      *uint
	AirframeID     *uint
	FlightID       *uint
	TripID         *uint
	MealID         *uint
	DepartureID    *uint
	ArrivalID      *uint
}
