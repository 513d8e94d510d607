package gorm

// AircraftType is shared reference data describing a manufacturer/model pair
type AircraftType struct {
	ID           uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Manufacturer string `gorm:"column:manufacturer;type:varchar(50);not null;uniqueIndex:idx_aircraft_types_natural_key"`
	GenericType  string `gorm:"column:generic_type;type:varchar(50);not null;uniqueIndex:idx_aircraft_types_natural_key"`

	// Relationships
	Airframes []Airframe `gorm:"foreignKey:AircraftTypeID"`
}

// TableName specifies the table name for GORM
func (AircraftType) TableName() string {
	return "aircraft_types"
}

// Label renders the human-readable type name shown on cards
func (t AircraftType) Label() string {
	return t.Manufacturer + " " + t.GenericType
}
