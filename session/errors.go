package session

import (
	"errors"
	"fmt"
)

// ErrTransportLost is delivered to every pending handler when the
// socket is closed, whether by the peer, a read/write error, or a
// local Close.
var ErrTransportLost = errors.New("session: transport lost")

// errNoPendingHandler marks a frame that arrived with nothing in the
// pending queue to claim it; it is logged and dropped, never returned
// to a caller.
var errNoPendingHandler = errors.New("session: no pending handler for inbound frame")

// ProtocolError reports that the peer answered with a general-error
// response (opcode 98) or a nack (opcode 99), carrying parameters 900
// (error_code) and 901 (error_text).
type ProtocolError struct {
	Code int
	Text string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("session: protocol error %d: %s", e.Code, e.Text)
}

// correlationMismatchError is logged, not returned, when an inbound
// frame's packet number disagrees with the FIFO head's expected
// number; the frame is still dispatched to that head handler.
type correlationMismatchError struct {
	expected int
	got      int
}

func (e *correlationMismatchError) Error() string {
	return fmt.Sprintf("session: packet number mismatch: expected %d, frame carries %d", e.expected, e.got)
}
