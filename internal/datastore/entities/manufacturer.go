package entities

import "time"

// Manufacturer is a maker of audio equipment.
type Manufacturer struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_manufacturer_name"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM.
func (Manufacturer) TableName() string {
	return "manufacturers"
}
