package pdu

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEscape       = errors.New("pdu: invalid brace escape")
	ErrInvalidPacketNumber = errors.New("pdu: packet number must be odd and in 1..255")
)

// ChecksumMismatchError reports that an inbound frame's trailing
// checksum did not match the recomputed value over its prefix.
type ChecksumMismatchError struct {
	Expected uint8
	Actual   uint8
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("pdu: checksum mismatch: frame carries %02X, computed %02X", e.Actual, e.Expected)
}
