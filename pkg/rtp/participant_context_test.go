package rtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParticipantContextAcceptsOutboundUntilBye(t *testing.T) {
	ctx := newParticipantContext(&RtpParticipant{SSRC: 1})
	assert.True(t, ctx.acceptsOutbound())

	ctx.ByeReceived = true
	assert.False(t, ctx.acceptsOutbound())
}

func TestParticipantContextResetSendStats(t *testing.T) {
	ctx := newParticipantContext(&RtpParticipant{SSRC: 1})
	ctx.SentPackets = 10
	ctx.SentBytes = 2000

	packets, bytes := ctx.resetSendStats()
	assert.Equal(t, uint64(10), packets)
	assert.Equal(t, uint64(2000), bytes)
	assert.Zero(t, ctx.SentPackets)
	assert.Zero(t, ctx.SentBytes)
}
