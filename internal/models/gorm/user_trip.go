package gorm

// UserTrip is one passenger's experience of one flight. The slug is derived
// once at creation time and never recomputed.
type UserTrip struct {
	ID          uint    `gorm:"column:id;primaryKey;autoIncrement"`
	FlightID    uint    `gorm:"column:flight_id;not null;uniqueIndex:idx_user_trips_natural_key"`
	PassengerID uint    `gorm:"column:passenger_id;not null;uniqueIndex:idx_user_trips_natural_key"`
	Seat        *string `gorm:"column:seat;type:varchar(4)"`
	Neighbors   *string `gorm:"column:neighbors;type:text"`
	Comments    *string `gorm:"column:comments;type:text"`
	Price       *uint   `gorm:"column:price"`
	Slug        string  `gorm:"column:slug;type:varchar(100);index"`

	// Relationships
	Flight      Flight       `gorm:"foreignKey:FlightID;constraint:OnDelete:CASCADE"`
	Passenger   User         `gorm:"foreignKey:PassengerID;constraint:OnDelete:CASCADE"`
	Meals       []Meal       `gorm:"foreignKey:TripID"`
	TrackImages []TrackImage `gorm:"foreignKey:TripID"`
}

// TableName specifies the table name for GORM
func (UserTrip) TableName() string {
	return "user_trips"
}
