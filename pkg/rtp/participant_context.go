package rtp

// ParticipantContext is the per-session state the registry attaches to a
// participant: identity, last-seen sequence number, traffic counters, and
// the latched BYE/SDES flags.
//
// Every field here is mutated only while the owning registry's lock is
// held (see registry.go); there are no internal atomics.
type ParticipantContext struct {
	Participant *RtpParticipant

	// HasLastSequenceNumber is false until the first data packet from
	// this participant is processed — spec's "initial value is none,
	// any first packet is accepted".
	HasLastSequenceNumber bool
	LastSequenceNumber    uint16

	SentPackets     uint64
	SentBytes       uint64
	ReceivedPackets uint64
	ReceivedBytes   uint64

	ByeReceived  bool
	SdesReceived bool
}

func newParticipantContext(p *RtpParticipant) *ParticipantContext {
	return &ParticipantContext{Participant: p}
}

// acceptsOutbound reports whether this context may still receive fanout
// traffic; a latched BYE permanently excludes it until the context is
// removed and reinserted.
func (c *ParticipantContext) acceptsOutbound() bool {
	return !c.ByeReceived
}

// resetSendStats zeroes the outbound counters, mirroring RtcpAutomation's
// capture-then-reset of send stats when building a leave SenderReport.
func (c *ParticipantContext) resetSendStats() (packets, bytes uint64) {
	packets, bytes = c.SentPackets, c.SentBytes
	c.SentPackets, c.SentBytes = 0, 0
	return
}
