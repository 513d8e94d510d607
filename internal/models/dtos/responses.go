package dtos

// APIResponse is the JSON envelope every endpoint writes.
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// FlightCard is one denormalized entry on the latest-trips feed.
type FlightCard struct {
	PhotoURL     string `json:"photo_url"`
	FlightNumber string `json:"flight_number"`
	Date         string `json:"date"`
	Passenger    string `json:"passenger"`
	Airline      string `json:"airline"`
	AircraftType string `json:"aircraft_type"`
	Departure    string `json:"departure"`
	Destination  string `json:"destination"`
	TripSlug     string `json:"usertripslug"`
}

// TopPassenger is one leaderboard row.
type TopPassenger struct {
	Username     string `json:"username" db:"username"`
	TotalFlights int    `json:"total_flights" db:"total_flights"`
}

// SiteTotal is one site-wide distinct count, rendered with a display title.
type SiteTotal struct {
	Title string `json:"title"`
	Value int    `json:"value"`
}

// siteTotalsRow matches the aggregate query column set.
type SiteTotalsRow struct {
	UniqueAirlines      int `db:"unique_airlines"`
	UniqueAircraftTypes int `db:"unique_aircraft_types"`
	UniqueAirframes     int `db:"unique_airframes"`
	UniqueAirports      int `db:"unique_airports"`
}

// PassengerStatistics is the per-passenger distinct-count row.
type PassengerStatistics struct {
	Username           string `json:"username" db:"username"`
	FirstName          string `json:"first_name" db:"first_name"`
	LastName           string `json:"last_name" db:"last_name"`
	TotalAirlines      int    `json:"total_airlines" db:"total_airlines"`
	TotalAircraftTypes int    `json:"total_aircraft_types" db:"total_aircraft_types"`
	TotalAirports      int    `json:"total_airports" db:"total_airports"`
	TotalFlights       int    `json:"total_flights" db:"total_flights"`
}

// TripSummary is one row of a passenger's trip list.
type TripSummary struct {
	FlightNumber string  `json:"flight_number"`
	Date         string  `json:"date"`
	FlightTime   *string `json:"flight_time,omitempty"`
	Airline      string  `json:"airline"`
	Departure    string  `json:"departure"`
	Destination  string  `json:"destination"`
	TripSlug     string  `json:"usertripslug"`
}

// FlightInfoDetail is one leg of the trip detail view.
type FlightInfoDetail struct {
	AirportCode      string  `json:"airport_code"`
	Metar            *string `json:"metar,omitempty"`
	Gate             *string `json:"gate,omitempty"`
	IsBoardingBridge bool    `json:"is_boarding_bridge"`
	ScheduleTime     *string `json:"schedule_time,omitempty"`
	ActualTime       *string `json:"actual_time,omitempty"`
	Runway           string  `json:"runway"`
}

// TripDetail bundles the display fields, blob references and identifier bag
// of one trip. IDs has exactly the shape the composite save expects for an
// edit of this trip.
type TripDetail struct {
	TripSlug string `json:"usertripslug"`

	RegistrationNumber string `json:"registration_number"`
	SerialNumber       string `json:"serial_number"`
	AirlineName        string `json:"airline_name"`

	FlightNumber string  `json:"flight_number"`
	Date         string  `json:"date"`
	FlightTime   *string `json:"flight_time,omitempty"`

	Manufacturer string `json:"manufacturer"`
	GenericType  string `json:"generic_type"`
	AircraftType string `json:"aircraft_type"`

	Passenger   string  `json:"passenger"`
	Seat        *string `json:"seat,omitempty"`
	Neighbors   *string `json:"neighbors,omitempty"`
	Comments    *string `json:"comments,omitempty"`
	TicketPrice *uint   `json:"ticket_price,omitempty"`

	Drinks     string `json:"drinks"`
	Appetizer  string `json:"appetizer"`
	MainCourse string `json:"main_course"`
	Dessert    string `json:"dessert"`
	MealPrice  *uint  `json:"meal_price,omitempty"`

	Route     string           `json:"route"`
	Departure FlightInfoDetail `json:"departure_info"`
	Arrival   FlightInfoDetail `json:"arrival_info"`

	// Blob references, keyed the way the edit form names its file fields.
	Files map[string]string `json:"files"`

	IDs           TripSaveIDs `json:"ids"`
	TrackImageIDs []uint      `json:"track_image_ids"`
}
