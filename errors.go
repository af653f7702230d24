package cimd2

import (
	"errors"
	"fmt"

	"cimd2/pdu"
)

var (
	// ErrParameterTooLong is returned when user_id, password,
	// alpha_orig_addr, sub_addr, or window_size exceeds its bound.
	ErrParameterTooLong = errors.New("cimd2: parameter value too long")

	// ErrParameterOutOfRange is returned when data_coding_scheme isn't
	// 0..255 or a mode parameter isn't in its valid range.
	ErrParameterOutOfRange = errors.New("cimd2: parameter value out of range")
)

// MissingMandatoryParameterError reports that a builder was invoked
// without a parameter CIMD2 requires for that operation.
type MissingMandatoryParameterError struct {
	Code pdu.ParameterCode
}

func (e *MissingMandatoryParameterError) Error() string {
	return fmt.Sprintf("cimd2: missing mandatory parameter %s", e.Code)
}

// ConflictingParametersError reports that two mutually-exclusive
// parameters were both supplied to a builder (user_data vs
// user_data_binary, validity_period_rel vs _abs, first_deli_time_rel
// vs _abs).
type ConflictingParametersError struct {
	A, B pdu.ParameterCode
}

func (e *ConflictingParametersError) Error() string {
	return fmt.Sprintf("cimd2: conflicting parameters %s and %s", e.A, e.B)
}
