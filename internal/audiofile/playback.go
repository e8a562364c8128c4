package audiofile

import (
	"context"

	"github.com/amafra/tonecapture/internal/dsp"
)

// Playback consumes a finished buffer, e.g. by streaming it to an output
// device. No implementation ships with tonecapture.
type Playback interface {
	Play(ctx context.Context, buf dsp.Buffer) error
}
