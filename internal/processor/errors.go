package processor

import (
	"fmt"

	"github.com/amafra/tonecapture/internal/catalog"
	"github.com/amafra/tonecapture/internal/errors"
)

// ErrNotImpulseResponse is returned when a tone file that is not an IR file
// is used where an impulse response is needed.
var ErrNotImpulseResponse = errors.Newf("tone file is not an impulse response").
	Component("processor").
	Category(errors.CategoryValidation).
	Build()

func notImpulseResponse(tf catalog.ToneFile) error {
	return errors.New(fmt.Errorf("%w: tone file %d is a %s file", ErrNotImpulseResponse, tf.Base().ID, tf.Kind())).
		Component("processor").
		Category(errors.CategoryValidation).
		Context("tone_file_id", tf.Base().ID).
		Context("kind", string(tf.Kind())).
		Build()
}
