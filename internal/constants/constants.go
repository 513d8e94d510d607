package constants

// FlightStatus distinguishes the departure and arrival legs of a flight
type FlightStatus string

const (
	StatusDeparture FlightStatus = "Departure"
	StatusArrival   FlightStatus = "Arrival"
)

// APIStatus is the status field of every JSON envelope
type APIStatus string

const (
	APIStatusOk    APIStatus = "OK"
	APIStatusError APIStatus = "ERROR"
)

// Cache keys for read-side aggregates
const (
	CacheKeyLatestCards = "feed:latest_cards"
	CacheKeyTopUsers    = "stats:top_users"
	CacheKeySiteTotals  = "stats:site_totals"
	CacheKeyUserStats   = "stats:user_stats"
)

// MediaURLPrefix is the route prefix under which stored blobs are served
const MediaURLPrefix = "/media/"

// DefaultDrinks matches the catering default applied when a meal bag omits it
const DefaultDrinks = "Water"
