package rtp

import (
	"testing"

	"github.com/pion/rtcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildJoinCompoundIsReceiverReportPlusSDES(t *testing.T) {
	a := newRtcpAutomation("session-1")
	local := &RtpParticipant{SSRC: 100}

	compound := a.BuildJoinCompound(local)
	require.Len(t, compound, 2)

	rr, ok := compound[0].(*rtcp.ReceiverReport)
	require.True(t, ok)
	assert.Equal(t, uint32(100), rr.SSRC)
	assert.Empty(t, rr.Reports)

	_, ok = compound[1].(*rtcp.SourceDescription)
	assert.True(t, ok)
}

func TestBuildLeaveCompoundUsesReceiverReportWithoutSentTraffic(t *testing.T) {
	a := newRtcpAutomation("session-1")
	local := &RtpParticipant{SSRC: 100}
	ctx := newParticipantContext(&RtpParticipant{SSRC: 200})

	compound := a.BuildLeaveCompound(local, ctx, "shutting down", 0)
	require.Len(t, compound, 3)

	_, ok := compound[0].(*rtcp.ReceiverReport)
	assert.True(t, ok)

	bye, ok := compound[2].(*rtcp.Goodbye)
	require.True(t, ok)
	assert.Equal(t, []uint32{100}, bye.Sources)
	assert.Equal(t, "shutting down", bye.Reason)
}

func TestBuildLeaveCompoundUsesSenderReportAndResetsStats(t *testing.T) {
	a := newRtcpAutomation("session-1")
	local := &RtpParticipant{SSRC: 100}
	ctx := newParticipantContext(&RtpParticipant{SSRC: 200})
	ctx.SentPackets = 5
	ctx.SentBytes = 640

	compound := a.BuildLeaveCompound(local, ctx, "", 48000)
	sr, ok := compound[0].(*rtcp.SenderReport)
	require.True(t, ok)
	assert.Equal(t, uint32(5), sr.PacketCount)
	assert.Equal(t, uint32(640), sr.OctetCount)
	assert.Equal(t, uint32(48000), sr.RTPTime)

	bye := compound[2].(*rtcp.Goodbye)
	assert.Empty(t, bye.Reason)

	assert.Zero(t, ctx.SentPackets)
	assert.Zero(t, ctx.SentBytes)
}

func TestBuildRoutineCompoundHasNoGoodbye(t *testing.T) {
	a := newRtcpAutomation("session-1")
	local := &RtpParticipant{SSRC: 1}
	ctx := newParticipantContext(&RtpParticipant{SSRC: 2})

	compound := a.BuildRoutineCompound(local, ctx, 0)
	require.Len(t, compound, 2)
	for _, p := range compound {
		_, isBye := p.(*rtcp.Goodbye)
		assert.False(t, isBye)
	}
}

func TestNtpTimestampMonotonicAcrossSeconds(t *testing.T) {
	earlier := ntpTimestamp(mustParseTime(t, "2020-01-01T00:00:00Z"))
	later := ntpTimestamp(mustParseTime(t, "2020-01-01T00:00:01Z"))
	assert.Greater(t, later, earlier)
}
