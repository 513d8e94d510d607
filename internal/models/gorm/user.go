package gorm

import "time"

// User is the passenger identity. Authentication happens outside this
// service; the row exists for ownership and statistics.
type User struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Username  string    `gorm:"column:username;type:varchar(150);not null;uniqueIndex"`
	FirstName string    `gorm:"column:first_name;type:varchar(150)"`
	LastName  string    `gorm:"column:last_name;type:varchar(150)"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	Trips []UserTrip `gorm:"foreignKey:PassengerID"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
