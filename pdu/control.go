// Package pdu implements the CIMD2 wire format: control bytes, the
// parameter dictionary, and the codec that turns parameter lists into
// framed bytes and back.
package pdu

// ControlByte is one of the four bytes CIMD2 uses to delimit a frame.
type ControlByte byte

const (
	NUL ControlByte = 0x00
	STX ControlByte = 0x02
	ETX ControlByte = 0x03
	TAB ControlByte = 0x09
)

// escapeNames maps the brace-escape name (as it appears between "{" and
// "}" in the textual form) to its control byte. Names are matched
// case-insensitively but always rendered upper-case by Decode.
var escapeNames = map[string]ControlByte{
	"NUL": NUL,
	"STX": STX,
	"ETX": ETX,
	"TAB": TAB,
}

var controlEscape = map[ControlByte]string{
	NUL: "{NUL}",
	STX: "{STX}",
	ETX: "{ETX}",
	TAB: "{TAB}",
}
