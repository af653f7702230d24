package pdu

import "fmt"

// ParameterPair is a single code:value parameter as it appears inside a
// CIMD2 frame. Value is always the textual wire representation; callers
// that need to carry an integer render it with strconv before building
// a ParameterPair.
type ParameterPair struct {
	Code  ParameterCode
	Value string
}

// itoa2 renders n as a zero-padded two-digit decimal string (opcodes).
func itoa2(n int) string { return fmt.Sprintf("%02d", n) }

// itoa3 renders n as a zero-padded three-digit decimal string (packet
// numbers and parameter codes).
func itoa3(n int) string { return fmt.Sprintf("%03d", n) }
