package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"cimd2/pdu"
)

func TestPendingQueue_FIFOOrder(t *testing.T) {
	q := newPendingQueue()
	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		q.Push(&pendingResponse{packetNo: i, handle: func(Response, error) { order = append(order, i) }})
	}
	assert.Equal(t, 3, q.Len())

	for i := 1; i <= 3; i++ {
		p := q.PopFront()
		p.handle(Response{}, nil)
	}
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.PopFront())
}

func TestPendingQueue_DrainInvokesEveryHandlerWithErr(t *testing.T) {
	q := newPendingQueue()
	sentinel := errors.New("boom")
	var gotErrs []error
	for i := 0; i < 3; i++ {
		q.Push(&pendingResponse{packetNo: i, handle: func(_ Response, err error) { gotErrs = append(gotErrs, err) }})
	}

	q.Drain(sentinel)

	assert.Len(t, gotErrs, 3)
	for _, err := range gotErrs {
		assert.Same(t, sentinel, err)
	}
	assert.Equal(t, 0, q.Len())
}

func TestResponse_ParamValue(t *testing.T) {
	r := Response{Params: []pdu.ParameterPair{{Code: pdu.ParamDestAddr, Value: "12345"}}}
	v, ok := r.ParamValue(pdu.ParamDestAddr)
	assert.True(t, ok)
	assert.Equal(t, "12345", v)

	_, ok = r.ParamValue(pdu.ParamOrigAddr)
	assert.False(t, ok)
}
