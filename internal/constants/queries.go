package constants

// Raw aggregation SQL used by the stats service. Queries use `?` bindvars
// and are passed through sqlx Rebind so the same text runs on postgres in
// production and sqlite in tests.

const (
	TopPassengersQuery = `
	SELECT u.username AS username, COUNT(ut.id) AS total_flights
	FROM user_trips ut
	JOIN users u ON u.id = ut.passenger_id
	GROUP BY u.username
	ORDER BY total_flights DESC, u.username ASC
	LIMIT ?
	`

	SiteTotalsQuery = `
	SELECT
		COUNT(DISTINCT al.name)             AS unique_airlines,
		COUNT(DISTINCT af.aircraft_type_id) AS unique_aircraft_types,
		COUNT(DISTINCT af.serial_number)    AS unique_airframes,
		COUNT(DISTINCT fi.airport_code)     AS unique_airports
	FROM flight_infos fi
	JOIN flights f ON f.id = fi.flight_id
	LEFT JOIN airframes af ON af.id = f.airframe_id
	LEFT JOIN airlines al ON al.id = af.airline_id
	`

	PassengerStatisticsQuery = `
	SELECT
		u.username   AS username,
		u.first_name AS first_name,
		u.last_name  AS last_name,
		COUNT(DISTINCT af.airline_id)       AS total_airlines,
		COUNT(DISTINCT af.aircraft_type_id) AS total_aircraft_types,
		COUNT(DISTINCT fi.airport_code)     AS total_airports,
		COUNT(DISTINCT ut.id)               AS total_flights
	FROM users u
	LEFT JOIN user_trips ut ON ut.passenger_id = u.id
	LEFT JOIN flights f ON f.id = ut.flight_id
	LEFT JOIN airframes af ON af.id = f.airframe_id
	LEFT JOIN flight_infos fi ON fi.flight_id = f.id
	GROUP BY u.id, u.username, u.first_name, u.last_name
	ORDER BY u.username ASC
	`

	PassengerProfileQuery = `
	SELECT
		u.username   AS username,
		u.first_name AS first_name,
		u.last_name  AS last_name,
		COUNT(DISTINCT af.airline_id)       AS total_airlines,
		COUNT(DISTINCT af.aircraft_type_id) AS total_aircraft_types,
		COUNT(DISTINCT fi.airport_code)     AS total_airports,
		COUNT(DISTINCT ut.id)               AS total_flights
	FROM users u
	LEFT JOIN user_trips ut ON ut.passenger_id = u.id
	LEFT JOIN flights f ON f.id = ut.flight_id
	LEFT JOIN airframes af ON af.id = f.airframe_id
	LEFT JOIN flight_infos fi ON fi.flight_id = f.id
	WHERE u.username = ?
	GROUP BY u.id, u.username, u.first_name, u.last_name
	`
)
