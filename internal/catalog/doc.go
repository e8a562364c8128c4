// Package catalog manages the tonecapture equipment catalog: manufacturers,
// devices of four kinds, tone files of two kinds, and the ordered device
// chain recorded for each tone file.
//
// Devices and tone files are polymorphic. Loaded rows resolve to concrete
// types (*Speaker, *Microphone, *Amplifier, *Pedal and *IRFile, *NAMFile)
// behind the Device and ToneFile interfaces, so callers switch on the Go
// type instead of a kind string.
//
// Every mutation runs in one transaction. Errors are EnhancedErrors that
// wrap one of the sentinels in errors.go, so both errors.Is and the error
// category work on anything this package returns.
package catalog
