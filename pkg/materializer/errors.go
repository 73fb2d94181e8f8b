//go:build go1.23

package materializer

import (
	"errors"
	"fmt"
)

// ErrCorruptSnapshot is returned by View when a blob fails a structural
// check: too short for a header, a bad magic, or an unsupported version.
// A checksum failure also unwraps to this, via [ChecksumMismatchError].
var ErrCorruptSnapshot = errors.New("materializer: corrupt snapshot")

// ChecksumMismatchError is the wrapped detail behind ErrCorruptSnapshot
// when the header decodes fine but the payload's CRC32 doesn't match the
// value recorded at Write time - a caller that wants the two checksums
// for a diagnostic, rather than just the fact of corruption, can recover
// them with xerrors.AsA[*ChecksumMismatchError](err).
type ChecksumMismatchError struct {
	Want, Got uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("materializer: checksum mismatch: want %08x, got %08x", e.Want, e.Got)
}

func (e *ChecksumMismatchError) Unwrap() error { return ErrCorruptSnapshot }
