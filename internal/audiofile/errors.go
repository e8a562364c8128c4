package audiofile

import (
	"github.com/amafra/tonecapture/internal/errors"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than .wav and .flac
	ErrUnsupportedFormat = errors.Newf("unsupported audio format").Component("audiofile").Category(errors.CategoryValidation).Build()

	// ErrInvalidFile is returned when a file does not parse as its format
	ErrInvalidFile = errors.Newf("invalid audio file").Component("audiofile").Category(errors.CategoryFileParsing).Build()

	// ErrUnsupportedBitDepth is returned for bit depths the codecs cannot handle
	ErrUnsupportedBitDepth = errors.Newf("unsupported bit depth").Component("audiofile").Category(errors.CategoryValidation).Build()
)
