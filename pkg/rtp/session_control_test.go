package rtp

import (
	"net"
	"testing"
	"time"

	"github.com/pion/rtcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnSourceDescriptionFirstJoinCreatesParticipant(t *testing.T) {
	engine := newTestEngine(t, true)
	origin := &net.UDPAddr{IP: net.ParseIP("198.51.100.10"), Port: 6000}

	done := make(chan *RtpParticipant, 1)
	engine.AddEventListener(&funcEventListener{
		onJoinedFromControl: func(e *SessionEngine, p *RtpParticipant, chunk *rtcp.SourceDescriptionChunk) {
			done <- p
		},
	})

	sdes := &rtcp.SourceDescription{Chunks: []rtcp.SourceDescriptionChunk{{
		Source: 500,
		Items: []rtcp.SourceDescriptionItem{
			{Type: rtcp.SDESCNAME, Text: "bob@example.com"},
		},
	}}}

	engine.onControl(origin, []rtcp.Packet{sdes})

	select {
	case p := <-done:
		assert.Equal(t, "bob@example.com", p.CNAME)
	case <-time.After(time.Second):
		t.Fatal("ParticipantJoinedFromControl was never delivered")
	}

	ctx := engine.GetRemoteParticipant(500)
	require.NotNil(t, ctx)
	assert.True(t, ctx.SdesReceived)
}

func TestOnSourceDescriptionUpdatesExistingDataOnlyParticipant(t *testing.T) {
	engine := newTestEngine(t, true)
	origin := &net.UDPAddr{IP: net.ParseIP("198.51.100.11"), Port: 6001}

	require.True(t, engine.registry.Insert(&RtpParticipant{SSRC: 600}))

	done := make(chan *RtpParticipant, 1)
	engine.AddEventListener(&funcEventListener{
		onDataUpdated: func(e *SessionEngine, p *RtpParticipant) { done <- p },
	})

	sdes := &rtcp.SourceDescription{Chunks: []rtcp.SourceDescriptionChunk{{
		Source: 600,
		Items: []rtcp.SourceDescriptionItem{
			{Type: rtcp.SDESCNAME, Text: "carol@example.com"},
		},
	}}}
	engine.onControl(origin, []rtcp.Packet{sdes})

	select {
	case p := <-done:
		assert.Equal(t, "carol@example.com", p.CNAME)
	case <-time.After(time.Second):
		t.Fatal("ParticipantDataUpdated was never delivered")
	}
}

func TestOnGoodbyeLatchesByeWithoutRemovingParticipant(t *testing.T) {
	engine := newTestEngine(t, true)
	require.True(t, engine.registry.Insert(&RtpParticipant{SSRC: 700}))

	done := make(chan string, 1)
	engine.AddEventListener(&funcEventListener{
		onParticipantLeft: func(e *SessionEngine, p *RtpParticipant, reason string) { done <- reason },
	})

	engine.onControl(nil, []rtcp.Packet{&rtcp.Goodbye{Sources: []uint32{700}, Reason: "call ended"}})

	select {
	case reason := <-done:
		assert.Equal(t, "call ended", reason)
	case <-time.After(time.Second):
		t.Fatal("ParticipantLeft was never delivered")
	}

	ctx := engine.GetRemoteParticipant(700)
	require.NotNil(t, ctx, "BYE must latch, not remove")
	assert.True(t, ctx.ByeReceived)
}

func TestOnGoodbyeIgnoresUnknownSSRC(t *testing.T) {
	engine := newTestEngine(t, true)
	assert.NotPanics(t, func() {
		engine.onControl(nil, []rtcp.Packet{&rtcp.Goodbye{Sources: []uint32{999999}}})
	})
}

func TestSendControlPacketRejectedWhenAutomationOn(t *testing.T) {
	engine := newTestEngine(t, true)
	compound := []rtcp.Packet{&rtcp.ReceiverReport{SSRC: engine.LocalParticipant().SSRC}}
	assert.False(t, engine.SendControlPacket(compound))
}

func TestSendControlPacketAllowedWhenAutomationOff(t *testing.T) {
	engine := newTestEngine(t, false)
	compound := []rtcp.Packet{&rtcp.ReceiverReport{SSRC: engine.LocalParticipant().SSRC}}
	assert.True(t, engine.SendControlPacket(compound))
}

func TestOnControlForwardsRawCompoundWhenAutomationOff(t *testing.T) {
	engine := newTestEngine(t, false)

	done := make(chan []rtcp.Packet, 1)
	engine.AddControlListener(&recordingControlListener{onControl: func(compound []rtcp.Packet) {
		done <- compound
	}})

	compound := []rtcp.Packet{&rtcp.ReceiverReport{SSRC: 1}}
	engine.onControl(nil, compound)

	select {
	case got := <-done:
		require.Len(t, got, 1)
	case <-time.After(time.Second):
		t.Fatal("ControlPacketReceived was never delivered")
	}
}

type recordingControlListener struct {
	onControl func(compound []rtcp.Packet)
}

func (l *recordingControlListener) ControlPacketReceived(engine *SessionEngine, compound []rtcp.Packet) {
	if l.onControl != nil {
		l.onControl(compound)
	}
}

func (l *recordingControlListener) AppDataReceived(engine *SessionEngine, packet *rtcp.RawPacket) {}
