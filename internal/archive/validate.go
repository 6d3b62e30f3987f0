package archive

import (
	"errors"
	"fmt"
)

// ErrInvalidArchive indicates a downloaded buffer is not a plausible LHA
// archive and must not be handed to the container parser.
var ErrInvalidArchive = errors.New("not an LHA archive")

// Validate checks the LHA method marker before the buffer is trusted as an
// archive. Every LHA header carries an ASCII method ID of the form "-lh?-"
// at offset 2; the method letter itself varies by compression scheme and is
// not matched.
//
// See https://en.wikipedia.org/wiki/LHA_(file_format).
func Validate(data []byte) error {
	if len(data) < 7 {
		return fmt.Errorf("%w: %d bytes is shorter than the header signature", ErrInvalidArchive, len(data))
	}
	if data[2] != '-' || data[3] != 'l' || data[4] != 'h' || data[6] != '-' {
		return fmt.Errorf("%w: missing -lh?- method marker at offset 2", ErrInvalidArchive)
	}
	return nil
}
