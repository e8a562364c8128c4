// Package metrics provides constants used across metric definitions.
package metrics

// Catalog operation label values.
const (
	OpCreateManufacturer = "create_manufacturer"
	OpFindManufacturer   = "find_manufacturer"
	OpListManufacturers  = "list_manufacturers"
	OpCreateDevice       = "create_device"
	OpFindDevice         = "find_device"
	OpListDevices        = "list_devices"
	OpRenameDevice       = "rename_device"
	OpDeleteDevice       = "delete_device"
	OpCreateToneFile     = "create_tone_file"
	OpFindToneFile       = "find_tone_file"
	OpListToneFiles      = "list_tone_files"
	OpUpdateToneFile     = "update_tone_file"
	OpDeleteToneFile     = "delete_tone_file"
	OpLink               = "link"
	OpUnlink             = "unlink"
	OpChain              = "chain"
)

// Pipeline stage label values.
const (
	StageDecode    = "decode"
	StageResample  = "resample"
	StageConvolve  = "convolve"
	StageNormalize = "normalize"
	StageApply     = "apply"
	StageAverage   = "average"
)

// Status label values.
const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
	StatusConflict = "conflict"
	StatusInvalid  = "invalid"
	StatusError    = "error"
)

// Cache result label values.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Histogram bucket configuration constants.
const (
	// BucketStart100us is the starting bucket for 0.1ms histograms (0.1ms to ~400ms range).
	BucketStart100us = 0.0001
	// BucketStart1ms is the starting bucket for 1ms histograms (1ms to ~16s range).
	BucketStart1ms = 0.001
	// BucketStart64 is the starting bucket for sample count histograms.
	BucketStart64 = 64.0

	// BucketFactor2 is the common exponential growth factor of 2 for histogram buckets.
	BucketFactor2 = 2
	// BucketFactor4 is used for wide-range sample count histograms.
	BucketFactor4 = 4

	// BucketCount12 defines 12 exponential buckets.
	BucketCount12 = 12
	// BucketCount15 defines 15 exponential buckets.
	BucketCount15 = 15
)
