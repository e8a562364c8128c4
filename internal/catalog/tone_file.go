package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/amafra/tonecapture/internal/datastore/entities"
)

// ToneFileKind names a tone file variant.
type ToneFileKind = entities.ToneFileKind

const (
	KindIR  = entities.ToneFileKindIR
	KindNAM = entities.ToneFileKindNAM
)

// ToneFile is any cataloged capture. The concrete type is *IRFile or
// *NAMFile.
type ToneFile interface {
	// Base returns the fields shared by every variant.
	Base() *ToneFileBase
	Kind() ToneFileKind
	// Devices returns the chain devices in chain order.
	Devices() []Device
	String() string
}

// ToneFileBase holds the fields shared by every tone file variant.
type ToneFileBase struct {
	ID        uint
	Path      string
	Filename  string
	Notes     string
	Embedding []byte // nil until computed
	CreatedAt time.Time
	UpdatedAt time.Time
	// Chain is the ordered device chain, loaded with the tone file.
	Chain []ChainEntry
}

// Base implements ToneFile.
func (b *ToneFileBase) Base() *ToneFileBase { return b }

// Devices implements ToneFile.
func (b *ToneFileBase) Devices() []Device {
	devices := make([]Device, 0, len(b.Chain))
	for _, entry := range b.Chain {
		devices = append(devices, entry.Device)
	}
	return devices
}

// IRFile is an impulse response capture. Its chain usually holds speakers
// and microphones.
type IRFile struct{ ToneFileBase }

// NAMFile is a neural amp model capture. Its chain usually holds
// amplifiers, speakers and pedals.
type NAMFile struct{ ToneFileBase }

func (*IRFile) Kind() ToneFileKind  { return KindIR }
func (*NAMFile) Kind() ToneFileKind { return KindNAM }

// Speakers returns the speakers of the chain in chain order.
func (f *IRFile) Speakers() []*Speaker { return devicesOf[*Speaker](f.Chain) }

// Microphones returns the microphones of the chain in chain order.
func (f *IRFile) Microphones() []*Microphone { return devicesOf[*Microphone](f.Chain) }

// Amplifiers returns the amplifiers of the chain in chain order.
func (f *NAMFile) Amplifiers() []*Amplifier { return devicesOf[*Amplifier](f.Chain) }

// Speakers returns the speakers of the chain in chain order.
func (f *NAMFile) Speakers() []*Speaker { return devicesOf[*Speaker](f.Chain) }

// Pedals returns the pedals of the chain in chain order.
func (f *NAMFile) Pedals() []*Pedal { return devicesOf[*Pedal](f.Chain) }

func (f *IRFile) String() string {
	return fmt.Sprintf("IRFile(%s, speakers=%d, mics=%d)", f.Filename, len(f.Speakers()), len(f.Microphones()))
}

func (f *NAMFile) String() string {
	return fmt.Sprintf("NAMFile(%s, amps=%d, speakers=%d, pedals=%d)",
		f.Filename, len(f.Amplifiers()), len(f.Speakers()), len(f.Pedals()))
}

// devicesOf filters chain to devices of concrete type T, keeping order.
func devicesOf[T Device](chain []ChainEntry) []T {
	var out []T
	for _, entry := range chain {
		if d, ok := entry.Device.(T); ok {
			out = append(out, d)
		}
	}
	return out
}

// ChainEntry is one resolved position of a tone file's device chain.
type ChainEntry struct {
	LinkID uint
	Device Device
	Role   string
	Order  int
}

// DeviceLink is a stored chain position.
type DeviceLink struct {
	ID         uint
	ToneFileID uint
	DeviceID   uint
	Role       string
	Order      int
}

// ParseToneFileKind validates a kind name.
func ParseToneFileKind(s string) (ToneFileKind, error) {
	kind := ToneFileKind(strings.ToLower(strings.TrimSpace(s)))
	if !kind.Valid() {
		return "", invalidKind("tone file", s)
	}
	return kind, nil
}

// toToneFile resolves a base row and its chain to the variant.
func toToneFile(row *entities.ToneFile, chain []ChainEntry) (ToneFile, error) {
	base := ToneFileBase{
		ID:        row.ID,
		Path:      row.Path,
		Filename:  row.Filename,
		Notes:     row.Notes,
		Embedding: row.Embedding,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		Chain:     chain,
	}

	switch row.FileType {
	case entities.ToneFileKindIR:
		return &IRFile{base}, nil
	case entities.ToneFileKindNAM:
		return &NAMFile{base}, nil
	}
	return nil, invalidKind("tone file", string(row.FileType))
}

func toDeviceLink(row *entities.ToneFileDeviceLink) *DeviceLink {
	return &DeviceLink{
		ID:         row.ID,
		ToneFileID: row.ToneFileID,
		DeviceID:   row.DeviceID,
		Role:       row.Role,
		Order:      row.Order,
	}
}

var (
	_ ToneFile = (*IRFile)(nil)
	_ ToneFile = (*NAMFile)(nil)
)
