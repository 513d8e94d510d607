package gorm

import "aviablog/internal/constants"

// FlightInfo carries per-airport detail for one flight leg. A flight is
// expected to have exactly one Departure and one Arrival row; the unique
// index on (flight_id, airport_code) is what the database enforces.
type FlightInfo struct {
	ID               uint                   `gorm:"column:id;primaryKey;autoIncrement"`
	FlightID         uint                   `gorm:"column:flight_id;not null;uniqueIndex:idx_flight_infos_natural_key"`
	Status           constants.FlightStatus `gorm:"column:status;type:varchar(20);not null"`
	AirportCode      string                 `gorm:"column:airport_code;type:varchar(4);not null;uniqueIndex:idx_flight_infos_natural_key"`
	Metar            *string                `gorm:"column:metar;type:varchar(300)"`
	Gate             *string                `gorm:"column:gate;type:varchar(5)"`
	IsBoardingBridge bool                   `gorm:"column:is_boarding_bridge;default:false"`
	ScheduleTime     *string                `gorm:"column:schedule_time;type:varchar(5)"`
	ActualTime       *string                `gorm:"column:actual_time;type:varchar(5)"`
	Runway           string                 `gorm:"column:runway;type:varchar(3);not null"`

	// Relationships
	Flight Flight `gorm:"foreignKey:FlightID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (FlightInfo) TableName() string {
	return "flight_infos"
}
