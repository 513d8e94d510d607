package gorm

import "time"

// Flight is one physical flight, unique per (flight_number, date). Many
// trips may share it. The airframe reference is weak.
type Flight struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	FlightNumber string    `gorm:"column:flight_number;type:varchar(50);not null;uniqueIndex:idx_flights_natural_key"`
	Date         time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_flights_natural_key"`
	FlightTime   *string   `gorm:"column:flight_time;type:varchar(5)"`
	AirframeID   *uint     `gorm:"column:airframe_id"`

	// Relationships
	Airframe    *Airframe    `gorm:"foreignKey:AirframeID;constraint:OnDelete:SET NULL"`
	FlightInfos []FlightInfo `gorm:"foreignKey:FlightID"`
}

// TableName specifies the table name for GORM
func (Flight) TableName() string {
	return "flights"
}

// DateString formats the flight date the way blob keys and slugs expect
func (f Flight) DateString() string {
	return f.Date.Format("2006-01-02")
}
