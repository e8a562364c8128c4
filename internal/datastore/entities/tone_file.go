package entities

import "time"

// ToneFileKind discriminates tone file rows and selects the variant subtable.
type ToneFileKind string

const (
	ToneFileKindIR  ToneFileKind = "ir"
	ToneFileKindNAM ToneFileKind = "nam"
)

// ToneFileKinds lists every known kind.
var ToneFileKinds = []ToneFileKind{ToneFileKindIR, ToneFileKindNAM}

// Valid reports whether k is a known tone file kind.
func (k ToneFileKind) Valid() bool {
	return k == ToneFileKindIR || k == ToneFileKindNAM
}

// ToneFile is the base row shared by every captured tone.
type ToneFile struct {
	ID       uint         `gorm:"primaryKey"`
	Path     string       `gorm:"type:varchar(500);not null;uniqueIndex:idx_tone_file_path"`
	Filename string       `gorm:"type:varchar(255);not null"`
	Notes    string       `gorm:"type:text"`
	FileType ToneFileKind `gorm:"type:varchar(20);not null;index"`
	// Embedding is an opaque analysis blob, NULL until computed.
	Embedding []byte
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM.
func (ToneFile) TableName() string {
	return "tone_files"
}

// IRFile marks a tone file as an impulse response capture.
type IRFile struct {
	ToneFileID uint `gorm:"primaryKey;autoIncrement:false"`

	ToneFile *ToneFile `gorm:"foreignKey:ToneFileID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (IRFile) TableName() string {
	return "ir_files"
}

// NAMFile marks a tone file as a neural amp model capture.
type NAMFile struct {
	ToneFileID uint `gorm:"primaryKey;autoIncrement:false"`

	ToneFile *ToneFile `gorm:"foreignKey:ToneFileID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (NAMFile) TableName() string {
	return "nam_files"
}
