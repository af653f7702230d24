package pdu

import (
	"bytes"
	"strings"
)

// Codec encodes and decodes the CIMD2 wire format. It is stateless —
// the packet number that appears in a header is supplied by the
// caller on every call, never remembered here. The zero value is ready
// to use.
type Codec struct{}

// Encode turns a textual form using brace-escapes ({NUL}, {STX}, {ETX},
// {TAB}, case-insensitive) into raw bytes. Any byte other than "{" is
// copied through unchanged; a "{" that doesn't open one of the four
// escapes yields ErrInvalidEscape.
func (Codec) Encode(text string) ([]byte, error) {
	out := make([]byte, 0, len(text))
	i := 0
	for i < len(text) {
		if text[i] != '{' {
			out = append(out, text[i])
			i++
			continue
		}
		if i+4 >= len(text) || text[i+4] != '}' {
			return nil, ErrInvalidEscape
		}
		name := strings.ToUpper(text[i+1 : i+4])
		cb, ok := escapeNames[name]
		if !ok {
			return nil, ErrInvalidEscape
		}
		out = append(out, byte(cb))
		i += 5
	}
	return out, nil
}

// Decode is the inverse of Encode, but asymmetric by design: printable
// bytes (value > 31) pass through unchanged, the four control bytes
// become their brace forms, and every other byte below 32 is dropped
// silently. Decode is diagnostic, not authoritative — round-tripping a
// raw frame through Decode then Encode is not guaranteed to reproduce
// the original bytes if the frame carried a control byte outside the
// four CIMD2 knows about.
func (Codec) Decode(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		switch {
		case c > 31:
			b.WriteByte(c)
		default:
			if esc, ok := controlEscape[ControlByte(c)]; ok {
				b.WriteString(esc)
			}
			// else: control byte CIMD2 doesn't define an escape for; dropped.
		}
	}
	return b.String()
}

// CalcChecksum is the unsigned 8-bit sum of every byte in data, modulo 256.
func (Codec) CalcChecksum(data []byte) uint8 {
	var sum uint8
	for _, c := range data {
		sum += c
	}
	return sum
}

// CreateHeader yields STX + two-digit(opcode) + ":" + three-digit(packetNo) + TAB.
func (c Codec) CreateHeader(opcode int, packetNo int) []byte {
	var b strings.Builder
	b.WriteByte(byte(STX))
	b.WriteString(itoa2(opcode))
	b.WriteByte(':')
	b.WriteString(itoa3(packetNo))
	b.WriteByte(byte(TAB))
	return []byte(b.String())
}

// CreateParamBlock yields three-digit(code) + ":" + value + TAB.
func (c Codec) CreateParamBlock(code ParameterCode, value string) []byte {
	var b strings.Builder
	b.WriteString(itoa3(int(code)))
	b.WriteByte(':')
	b.WriteString(value)
	b.WriteByte(byte(TAB))
	return []byte(b.String())
}

// CreateTrailer yields ETX alone when prefix is empty, or the two
// uppercase hex digits of CalcChecksum(prefix) followed by ETX.
func (c Codec) CreateTrailer(prefix []byte) []byte {
	if len(prefix) == 0 {
		return []byte{byte(ETX)}
	}
	sum := c.CalcChecksum(prefix)
	return []byte(hex2(sum) + string(ETX))
}

const hexDigits = "0123456789ABCDEF"

func hex2(v uint8) string {
	return string([]byte{hexDigits[v>>4], hexDigits[v&0x0F]})
}

// CreateMessage composes a full frame: header, every parameter block in
// the order supplied, then a trailer. When useChecksum is true the
// trailer's checksum covers every byte emitted so far (header through
// the final TAB).
func (c Codec) CreateMessage(opcode int, params []ParameterPair, packetNo int, useChecksum bool) []byte {
	var body []byte
	body = append(body, c.CreateHeader(opcode, packetNo)...)
	for _, p := range params {
		body = append(body, c.CreateParamBlock(p.Code, p.Value)...)
	}
	if useChecksum {
		return append(body, c.CreateTrailer(body)...)
	}
	return append(body, c.CreateTrailer(nil)...)
}

// ExtractParamValue scans frame for "TAB code:" and returns the bytes
// that follow up to (but not including) the next TAB or ETX. It
// reports false if code does not appear in frame in parameter
// position. Unlike a \w-class scan, this never truncates a value that
// legitimately contains spaces or punctuation.
func (c Codec) ExtractParamValue(frame []byte, code ParameterCode) (string, bool) {
	needle := append([]byte{byte(TAB)}, []byte(itoa3(int(code))+":")...)
	idx := bytes.Index(frame, needle)
	if idx < 0 {
		return "", false
	}
	start := idx + len(needle)
	end := start
	for end < len(frame) && frame[end] != byte(TAB) && frame[end] != byte(ETX) {
		end++
	}
	return string(frame[start:end]), true
}

// ExtractAllParamValues returns every "TAB code:value" occurrence in
// frame, in textual order.
func (c Codec) ExtractAllParamValues(frame []byte) []ParameterPair {
	var out []ParameterPair
	i := 0
	for i < len(frame) {
		if frame[i] != byte(TAB) {
			i++
			continue
		}
		j := i + 1
		codeStart := j
		for j < len(frame) && j < codeStart+3 && frame[j] >= '0' && frame[j] <= '9' {
			j++
		}
		if j-codeStart != 3 || j >= len(frame) || frame[j] != ':' {
			i++
			continue
		}
		code := atoi(frame[codeStart:j])
		valStart := j + 1
		valEnd := valStart
		for valEnd < len(frame) && frame[valEnd] != byte(TAB) && frame[valEnd] != byte(ETX) {
			valEnd++
		}
		out = append(out, ParameterPair{Code: ParameterCode(code), Value: string(frame[valStart:valEnd])})
		i = valEnd
	}
	return out
}

// VerifyChecksum recomputes the checksum over an inbound frame's prefix
// and compares it against the two hex digits immediately before ETX.
// It reports (true, nil) when no checksum is present (nothing to
// verify), and a *ChecksumMismatchError when the frame carries a
// checksum that doesn't match.
func (c Codec) VerifyChecksum(frame []byte) (bool, error) {
	if len(frame) < 3 || frame[len(frame)-1] != byte(ETX) {
		return true, nil
	}
	hex := frame[len(frame)-3 : len(frame)-1]
	actual, ok := parseHex2(hex)
	if !ok {
		return true, nil
	}
	prefix := frame[:len(frame)-3]
	expected := c.CalcChecksum(prefix)
	if expected != actual {
		return false, &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return true, nil
}

func parseHex2(b []byte) (uint8, bool) {
	if len(b) != 2 {
		return 0, false
	}
	hi, ok := hexDigit(b[0])
	if !ok {
		return 0, false
	}
	lo, ok := hexDigit(b[1])
	if !ok {
		return 0, false
	}
	return hi<<4 | lo, true
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

func atoi(b []byte) int {
	n := 0
	for _, c := range b {
		n = n*10 + int(c-'0')
	}
	return n
}

