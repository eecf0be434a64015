package rtp

import (
	"time"

	"github.com/pion/rtcp"
)

// DefaultRTCPInterval is the routine report cadence RtcpAutomation uses
// absent an override, matching the teacher's RTCPSession default (RFC
// 3550 recommends roughly 5 seconds for modest session sizes).
const DefaultRTCPInterval = 5 * time.Second

// RtcpAutomation builds the join, leave, and routine RTCP compounds the
// engine emits automatically when AutomatedRTCPHandling is on. It never
// touches the network itself; SessionEngine marshals and sends the
// compounds it returns. SDES chunk assembly is delegated to
// packetBuilders, kept as its own component per the corresponding entry
// in the architecture's component table.
//
// Grounded on the teacher's RTCPSession (rtcp_session.go):
// createSenderReport/createReceiverReport/addReceptionReports map onto
// buildReport/packetBuilders.receptionReports below, rebuilt over
// pion/rtcp instead of the teacher's hand-rolled wire codec.
type RtcpAutomation struct {
	builders packetBuilders
}

func newRtcpAutomation(sessionID string) *RtcpAutomation {
	return &RtcpAutomation{builders: packetBuilders{sessionID: sessionID}}
}

// BuildJoinCompound is emitted at Init and after SSRC rotation: an empty
// ReceiverReport announcing the (possibly new) current SSRC, followed by
// an SDES packet describing the local participant.
func (a *RtcpAutomation) BuildJoinCompound(local *RtpParticipant) []rtcp.Packet {
	rr := &rtcp.ReceiverReport{SSRC: local.SSRC}
	sdes := a.builders.buildSDES(local)
	return []rtcp.Packet{rr, sdes}
}

// BuildLeaveCompound is emitted once per known participant at termination
// and at SSRC rotation: a per-recipient report (SenderReport if the
// context has outbound traffic to report, ReceiverReport otherwise),
// SDES, and a BYE naming the current SSRC and an optional motive.
//
// Building the report resets the context's send-stat counters, mirroring
// the teacher's capture-then-reset behavior in createSenderReport.
// rtpTimestamp is the RTP timestamp carried by the most recently sent
// data packet, the value SenderReport.RTPTime correlates against NTPTime.
func (a *RtcpAutomation) BuildLeaveCompound(local *RtpParticipant, ctx *ParticipantContext, motive string, rtpTimestamp uint32) []rtcp.Packet {
	report := a.buildReport(local, ctx, rtpTimestamp)
	sdes := a.builders.buildSDES(local)
	bye := &rtcp.Goodbye{
		Sources: []uint32{local.SSRC},
	}
	if motive != "" {
		bye.Reason = motive
	}
	return []rtcp.Packet{report, sdes, bye}
}

// BuildRoutineCompound is emitted periodically (outside join/leave/
// rotation boundaries) to keep every participant's reception view
// current: the same per-recipient report shape as the leave compound,
// plus SDES, without a BYE.
func (a *RtcpAutomation) BuildRoutineCompound(local *RtpParticipant, ctx *ParticipantContext, rtpTimestamp uint32) []rtcp.Packet {
	report := a.buildReport(local, ctx, rtpTimestamp)
	sdes := a.builders.buildSDES(local)
	return []rtcp.Packet{report, sdes}
}

// buildReport picks SenderReport vs ReceiverReport based on whether the
// context has outbound traffic to report, and resets the send-stat
// counters it captures.
func (a *RtcpAutomation) buildReport(local *RtpParticipant, ctx *ParticipantContext, rtpTimestamp uint32) rtcp.Packet {
	reports := a.builders.receptionReports(ctx)

	if ctx.SentPackets > 0 {
		packets, octets := ctx.resetSendStats()
		return &rtcp.SenderReport{
			SSRC:        local.SSRC,
			NTPTime:     ntpTimestamp(time.Now()),
			RTPTime:     rtpTimestamp,
			PacketCount: uint32(packets),
			OctetCount:  uint32(octets),
			Reports:     reports,
		}
	}

	return &rtcp.ReceiverReport{
		SSRC:    local.SSRC,
		Reports: reports,
	}
}

// ntpTimestamp converts t to the 64-bit NTP timestamp format used by
// SenderReport.NTPTime, grounded on the teacher's NTPTimestamp helper
// (rtcp.go) — seconds since the NTP epoch in the upper 32 bits, a
// fractional remainder in the lower 32.
func ntpTimestamp(t time.Time) uint64 {
	const ntpEpochOffset = 2208988800 // seconds between 1900-01-01 and 1970-01-01
	secs := uint64(t.Unix()) + ntpEpochOffset
	frac := uint64(t.Nanosecond()) * (1 << 32) / 1e9
	return secs<<32 | frac
}
