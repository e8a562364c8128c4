package entities

import "time"

// DeviceKind discriminates device rows.
type DeviceKind string

const (
	DeviceKindSpeaker    DeviceKind = "speaker"
	DeviceKindMicrophone DeviceKind = "microphone"
	DeviceKindAmplifier  DeviceKind = "amplifier"
	DeviceKindPedal      DeviceKind = "pedal"
)

// DeviceKinds lists every known kind in display order.
var DeviceKinds = []DeviceKind{
	DeviceKindSpeaker,
	DeviceKindMicrophone,
	DeviceKindAmplifier,
	DeviceKindPedal,
}

// Valid reports whether k is a known device kind.
func (k DeviceKind) Valid() bool {
	switch k {
	case DeviceKindSpeaker, DeviceKindMicrophone, DeviceKindAmplifier, DeviceKindPedal:
		return true
	}
	return false
}

// Device is one piece of equipment. The manufacturer is optional.
type Device struct {
	ID             uint       `gorm:"primaryKey"`
	Name           string     `gorm:"type:varchar(200);not null;index"`
	Kind           DeviceKind `gorm:"type:varchar(20);not null;index"`
	ManufacturerID *uint      `gorm:"index"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime"`

	// Relationships
	Manufacturer *Manufacturer `gorm:"foreignKey:ManufacturerID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM.
func (Device) TableName() string {
	return "devices"
}
