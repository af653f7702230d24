package session

import (
	"sync"

	"cimd2/pdu"
)

// Response is the decoded form of an inbound CIMD2 frame, handed to
// whichever continuation correlates with it.
type Response struct {
	Opcode   pdu.OpCode
	PacketNo int
	Params   []pdu.ParameterPair
	Raw      []byte
}

// ParamValue looks up a parameter by code, mirroring
// pdu.Codec.ExtractParamValue but over the already-decoded list.
func (r Response) ParamValue(code pdu.ParameterCode) (string, bool) {
	for _, p := range r.Params {
		if p.Code == code {
			return p.Value, true
		}
	}
	return "", false
}

// pendingResponse is an explicit continuation: the handler queue holds
// these instead of bare callables, so a TransportLost cancellation can
// walk the queue and invoke every one of them exactly once.
type pendingResponse struct {
	opcode   pdu.OpCode
	packetNo int
	handle   func(Response, error)
}

// pendingQueue is the FIFO of outstanding request continuations. It is
// safe for concurrent Push from callers submitting requests; PopFront
// is called only from the session's read loop, and Drain from whichever
// goroutine closes the session.
type pendingQueue struct {
	mu    sync.Mutex
	items []*pendingResponse
}

func newPendingQueue() *pendingQueue {
	return &pendingQueue{}
}

func (q *pendingQueue) Push(p *pendingResponse) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, p)
}

// PopFront removes and returns the oldest pending continuation, or nil
// if the queue is empty.
func (q *pendingQueue) PopFront() *pendingResponse {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	p := q.items[0]
	q.items = q.items[1:]
	return p
}

func (q *pendingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain removes every pending continuation and invokes each one with
// err exactly once, in FIFO order. Handlers are moved out of the queue
// before invocation so a re-entrant Push from inside a handler cannot
// disturb this iteration.
func (q *pendingQueue) Drain(err error) {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()

	for _, p := range items {
		p.handle(Response{}, err)
	}
}
