package cimd2

import "cimd2/pdu"

// PacketCounter owns the single packet number a session stamps onto
// every outbound frame. It is not safe for concurrent use: the owning
// Session serializes access the same way it serializes every other
// piece of per-session state.
type PacketCounter struct {
	current int
}

// NewPacketCounter returns a counter starting at 1, the first valid
// packet number.
func NewPacketCounter() *PacketCounter {
	return &PacketCounter{current: 1}
}

// Current returns the packet number that will be used by the next
// frame that doesn't explicitly override it.
func (p *PacketCounter) Current() int {
	if p.current == 0 {
		return 1
	}
	return p.current
}

// Reset sets the counter back to 1. The session does this on every
// successful authentication, not on every reconnect attempt.
func (p *PacketCounter) Reset() {
	p.current = 1
}

// Advance moves the counter to the next odd number, wrapping from 255
// back to 1, and returns the new value.
func (p *PacketCounter) Advance() int {
	cur := p.Current()
	if cur >= 255 {
		p.current = 1
	} else {
		p.current = cur + 2
	}
	return p.current
}

// Next returns the packet number to stamp on the next frame and
// advances the counter, so one call to Next produces exactly one
// frame's worth of packet number. Builders that aren't given an
// explicit packet number call this instead of Current.
func (p *PacketCounter) Next() int {
	used := p.Current()
	p.Advance()
	return used
}

// Assign sets the counter to an explicit value, rejecting anything
// that isn't odd and in [1,255].
func (p *PacketCounter) Assign(n int) error {
	if n < 1 || n > 255 || n%2 == 0 {
		return pdu.ErrInvalidPacketNumber
	}
	p.current = n
	return nil
}
