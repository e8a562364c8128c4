package entities

import "time"

// ToneFileDeviceLink places one device at one position in a tone file's
// signal chain. The same device may appear several times in one chain.
type ToneFileDeviceLink struct {
	ID         uint      `gorm:"primaryKey"`
	ToneFileID uint      `gorm:"not null;index"`
	DeviceID   uint      `gorm:"not null;index"`
	Role       string    `gorm:"type:varchar(100)"` // e.g. "Main Mic", "Pre-Gain"
	Order      int       `gorm:"column:order;not null;default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	// Relationships
	ToneFile *ToneFile `gorm:"foreignKey:ToneFileID;constraint:OnDelete:CASCADE"`
	Device   *Device   `gorm:"foreignKey:DeviceID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM.
func (ToneFileDeviceLink) TableName() string {
	return "tone_file_device_links"
}
