package rtp

import (
	"testing"
	"time"

	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/stretchr/testify/require"
)

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

// funcEventListener adapts individual callbacks to the EventListener
// interface so tests only need to populate the hooks they exercise.
type funcEventListener struct {
	onResolvedSSRCConflict func(e *SessionEngine, oldSSRC, newSSRC uint32)
	onJoinedFromData       func(e *SessionEngine, p *RtpParticipant, packet *rtp.Packet)
	onJoinedFromControl    func(e *SessionEngine, p *RtpParticipant, chunk *rtcp.SourceDescriptionChunk)
	onDataUpdated          func(e *SessionEngine, p *RtpParticipant)
	onParticipantLeft      func(e *SessionEngine, p *RtpParticipant, reason string)
	onTerminated           func(e *SessionEngine, cause error)
}

func (l *funcEventListener) ResolvedSSRCConflict(e *SessionEngine, oldSSRC, newSSRC uint32) {
	if l.onResolvedSSRCConflict != nil {
		l.onResolvedSSRCConflict(e, oldSSRC, newSSRC)
	}
}

func (l *funcEventListener) ParticipantJoinedFromData(e *SessionEngine, p *RtpParticipant, packet *rtp.Packet) {
	if l.onJoinedFromData != nil {
		l.onJoinedFromData(e, p, packet)
	}
}

func (l *funcEventListener) ParticipantJoinedFromControl(e *SessionEngine, p *RtpParticipant, chunk *rtcp.SourceDescriptionChunk) {
	if l.onJoinedFromControl != nil {
		l.onJoinedFromControl(e, p, chunk)
	}
}

func (l *funcEventListener) ParticipantDataUpdated(e *SessionEngine, p *RtpParticipant) {
	if l.onDataUpdated != nil {
		l.onDataUpdated(e, p)
	}
}

func (l *funcEventListener) ParticipantLeft(e *SessionEngine, p *RtpParticipant, reason string) {
	if l.onParticipantLeft != nil {
		l.onParticipantLeft(e, p, reason)
	}
}

func (l *funcEventListener) SessionTerminated(e *SessionEngine, cause error) {
	if l.onTerminated != nil {
		l.onTerminated(e, cause)
	}
}

var _ EventListener = (*funcEventListener)(nil)
