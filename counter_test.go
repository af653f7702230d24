package cimd2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cimd2/pdu"
)

func TestPacketCounter_StartsAtOne(t *testing.T) {
	c := NewPacketCounter()
	assert.Equal(t, 1, c.Current())
}

func TestPacketCounter_AdvanceWraps(t *testing.T) {
	c := NewPacketCounter()
	require.NoError(t, c.Assign(255))
	assert.Equal(t, 1, c.Advance())

	require.NoError(t, c.Assign(253))
	assert.Equal(t, 255, c.Advance())
}

func TestPacketCounter_AssignRejectsEvenAndOutOfRange(t *testing.T) {
	c := NewPacketCounter()
	assert.ErrorIs(t, c.Assign(2), pdu.ErrInvalidPacketNumber)
	assert.ErrorIs(t, c.Assign(0), pdu.ErrInvalidPacketNumber)
	assert.ErrorIs(t, c.Assign(256), pdu.ErrInvalidPacketNumber)
	assert.NoError(t, c.Assign(17))
	assert.Equal(t, 17, c.Current())
}

func TestPacketCounter_NextAdvancesAfterUse(t *testing.T) {
	c := NewPacketCounter()
	c.Reset()

	assert.Equal(t, 1, c.Next())
	assert.Equal(t, 3, c.Next())
	assert.Equal(t, 5, c.Current())
}
