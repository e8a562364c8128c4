// Package entities contains the GORM row models of the tonecapture catalog.
//
// Devices use single-table polymorphism: every speaker, microphone,
// amplifier and pedal lives in the devices table and is told apart by Kind.
// Tone files use joined tables: the tone_files base row carries the shared
// columns and each variant has a narrow subtable (ir_files, nam_files)
// keyed by the base row's id.
package entities

// All returns every model in migration order.
func All() []any {
	return []any{
		&Manufacturer{},
		&Device{},
		&ToneFile{},
		&IRFile{},
		&NAMFile{},
		&ToneFileDeviceLink{},
	}
}
