package gorm

import (
	"fmt"
	"strings"
)

// Airframe is a physical aircraft. Type and airline references are weak:
// deleting either nulls the pointer, the airframe row survives.
type Airframe struct {
	ID                 uint   `gorm:"column:id;primaryKey;autoIncrement"`
	SerialNumber       string `gorm:"column:serial_number;type:varchar(50);not null;uniqueIndex:idx_airframes_natural_key"`
	RegistrationNumber string `gorm:"column:registration_number;type:varchar(50);not null;uniqueIndex:idx_airframes_natural_key"`
	Photo              string `gorm:"column:photo;type:varchar(255)"`
	AircraftTypeID     *uint  `gorm:"column:aircraft_type_id"`
	AirlineID          *uint  `gorm:"column:airline_id"`

	// Relationships
	AircraftType *AircraftType `gorm:"foreignKey:AircraftTypeID;constraint:OnDelete:SET NULL"`
	Airline      *Airline      `gorm:"foreignKey:AirlineID;constraint:OnDelete:SET NULL"`
}

// TableName specifies the table name for GORM
func (Airframe) TableName() string {
	return "airframes"
}

// PhotoKey derives the blob key for an airframe photo. The uploaded file is
// renamed after the registration number, keeping its extension:
// airframes/<airline>/<registration>.<ext>, lower-cased.
func (a Airframe) PhotoKey(airlineName, filename string) string {
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = filename[i:]
	}
	return strings.ToLower(fmt.Sprintf("airframes/%s/%s%s", airlineName, a.RegistrationNumber, ext))
}
