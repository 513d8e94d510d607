package gorm

import (
	"fmt"
	"strings"
)

// Meal records onboard catering for one trip
type Meal struct {
	ID         uint    `gorm:"column:id;primaryKey;autoIncrement"`
	TripID     uint    `gorm:"column:trip_id;not null"`
	Drinks     string  `gorm:"column:drinks;type:text;default:Water"`
	Appetizer  string  `gorm:"column:appetizer;type:text"`
	MainCourse string  `gorm:"column:main_course;type:text"`
	Dessert    string  `gorm:"column:dessert;type:text"`
	MealPrice  *uint   `gorm:"column:meal_price"`
	MealPhoto  *string `gorm:"column:meal_photo;type:varchar(255)"`

	// Relationships
	Trip UserTrip `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (Meal) TableName() string {
	return "meals"
}

// PhotoKey derives the blob key for a meal photo:
// meal/<flight-number>/<date>/<filename>, lower-cased.
func (Meal) PhotoKey(flightNumber, date, filename string) string {
	return strings.ToLower(fmt.Sprintf("meal/%s/%s/%s", flightNumber, date, filename))
}
