package gorm

// Airline is shared reference data keyed by its unique name
type Airline struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:varchar(100);not null;uniqueIndex"`

	// Relationships
	Fleet []Airframe `gorm:"foreignKey:AirlineID"`
}

// TableName specifies the table name for GORM
func (Airline) TableName() string {
	return "airlines"
}
