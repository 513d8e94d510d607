package gorm

import (
	"fmt"
	"strings"
)

// TrackImage is one flight-track screenshot attached to a trip.
// A trip owns zero or more of them.
type TrackImage struct {
	ID       uint    `gorm:"column:id;primaryKey;autoIncrement"`
	TripID   uint    `gorm:"column:trip_id;not null"`
	TrackImg *string `gorm:"column:track_img;type:varchar(255)"`

	// Relationships
	Trip UserTrip `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (TrackImage) TableName() string {
	return "track_images"
}

// ImageKey derives the blob key for a track image:
// tracks/<username>/<flight-number>/<date>/<filename>, lower-cased.
func (TrackImage) ImageKey(username, flightNumber, date, filename string) string {
	return strings.ToLower(fmt.Sprintf("tracks/%s/%s/%s/%s", username, flightNumber, date, filename))
}
