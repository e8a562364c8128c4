package catalog

import (
	"fmt"
	"strings"

	"github.com/amafra/tonecapture/internal/datastore/entities"
)

// DeviceKind names a device variant.
type DeviceKind = entities.DeviceKind

const (
	KindSpeaker    = entities.DeviceKindSpeaker
	KindMicrophone = entities.DeviceKindMicrophone
	KindAmplifier  = entities.DeviceKindAmplifier
	KindPedal      = entities.DeviceKindPedal
)

// Manufacturer is a maker of audio equipment.
type Manufacturer struct {
	ID   uint
	Name string
}

func (m *Manufacturer) String() string {
	return fmt.Sprintf("Manufacturer(%s)", m.Name)
}

// Device is any cataloged piece of equipment. The concrete type is one of
// *Speaker, *Microphone, *Amplifier or *Pedal.
type Device interface {
	// Base returns the fields shared by every variant.
	Base() *DeviceBase
	Kind() DeviceKind
	// DisplayName is "<manufacturer> <name>", or just the name.
	DisplayName() string
	String() string
}

// DeviceBase holds the fields shared by every device variant.
type DeviceBase struct {
	ID           uint
	Name         string
	Manufacturer *Manufacturer // nil when unknown
}

// Base implements Device.
func (b *DeviceBase) Base() *DeviceBase { return b }

// DisplayName implements Device.
func (b *DeviceBase) DisplayName() string {
	if b.Manufacturer == nil {
		return strings.TrimSpace(b.Name)
	}
	return strings.TrimSpace(b.Manufacturer.Name + " " + b.Name)
}

// Speaker is a loudspeaker or cabinet driver.
type Speaker struct{ DeviceBase }

// Microphone is a capture microphone.
type Microphone struct{ DeviceBase }

// Amplifier is an amp head or combo.
type Amplifier struct{ DeviceBase }

// Pedal is a stompbox.
type Pedal struct{ DeviceBase }

func (*Speaker) Kind() DeviceKind    { return KindSpeaker }
func (*Microphone) Kind() DeviceKind { return KindMicrophone }
func (*Amplifier) Kind() DeviceKind  { return KindAmplifier }
func (*Pedal) Kind() DeviceKind      { return KindPedal }

func (d *Speaker) String() string    { return "Speaker(" + d.DisplayName() + ")" }
func (d *Microphone) String() string { return "Microphone(" + d.DisplayName() + ")" }
func (d *Amplifier) String() string  { return "Amplifier(" + d.DisplayName() + ")" }
func (d *Pedal) String() string      { return "Pedal(" + d.DisplayName() + ")" }

// ParseDeviceKind validates a kind name.
func ParseDeviceKind(s string) (DeviceKind, error) {
	kind := DeviceKind(strings.ToLower(strings.TrimSpace(s)))
	if !kind.Valid() {
		return "", invalidKind("device", s)
	}
	return kind, nil
}

// toDevice resolves a row to its variant.
func toDevice(row *entities.Device) (Device, error) {
	base := DeviceBase{ID: row.ID, Name: row.Name}
	if row.Manufacturer != nil {
		base.Manufacturer = &Manufacturer{ID: row.Manufacturer.ID, Name: row.Manufacturer.Name}
	}

	switch row.Kind {
	case entities.DeviceKindSpeaker:
		return &Speaker{base}, nil
	case entities.DeviceKindMicrophone:
		return &Microphone{base}, nil
	case entities.DeviceKindAmplifier:
		return &Amplifier{base}, nil
	case entities.DeviceKindPedal:
		return &Pedal{base}, nil
	}
	return nil, invalidKind("device", string(row.Kind))
}

var (
	_ Device = (*Speaker)(nil)
	_ Device = (*Microphone)(nil)
	_ Device = (*Amplifier)(nil)
	_ Device = (*Pedal)(nil)
)
