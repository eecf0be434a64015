package rtp

import (
	"net"

	"github.com/pion/rtcp"
	"github.com/pion/rtp"
)

// sendToAllData iterates the registry under its read lock, writing
// packet to every participant whose context has not latched BYE. The
// read lock is held for the full iteration so recipient addresses cannot
// be rebound or removed mid-loop; transport write failures are logged
// and aggregated into the returned boolean without aborting the loop.
func (e *SessionEngine) sendToAllData(packet *rtp.Packet) bool {
	data, err := packet.Marshal()
	if err != nil {
		e.logger.warnErr(err, "failed to marshal outbound data packet")
		return false
	}

	ok := true
	e.registry.withReadLock(func(_ uint32, ctx *ParticipantContext) {
		if !ctx.acceptsOutbound() {
			return
		}
		if err := e.dataTransport.Send(data, ctx.Participant.DataAddress); err != nil {
			e.logger.warnErr(err, "transport write failure on data fanout")
			ok = false
			return
		}
		ctx.SentPackets++
		ctx.SentBytes += uint64(len(data))
		e.metrics.packetsSent.Inc()
	})
	return ok
}

// sendCompound writes compound to every known participant's control
// address (used for the join compound, where there is as yet no
// per-recipient report to tailor).
func (e *SessionEngine) sendCompound(compound []rtcp.Packet) bool {
	data, err := rtcp.Marshal(compound)
	if err != nil {
		e.logger.warnErr(err, "failed to marshal outbound rtcp compound")
		return false
	}

	ok := true
	e.registry.withReadLock(func(_ uint32, ctx *ParticipantContext) {
		if !ctx.acceptsOutbound() {
			return
		}
		if err := e.controlTransport.Send(data, ctx.Participant.ControlAddress); err != nil {
			e.logger.warnErr(err, "transport write failure on control fanout")
			ok = false
		}
	})
	return ok
}

// sendControlTo writes compound to a single address, used for the
// per-recipient leave and routine compounds RtcpAutomation builds.
func (e *SessionEngine) sendControlTo(addr *net.UDPAddr, compound []rtcp.Packet) bool {
	if e.controlTransport == nil || addr == nil {
		return false
	}
	data, err := rtcp.Marshal(compound)
	if err != nil {
		e.logger.warnErr(err, "failed to marshal outbound rtcp compound")
		return false
	}
	if err := e.controlTransport.Send(data, addr); err != nil {
		e.logger.warnErr(err, "transport write failure on control send")
		return false
	}
	return true
}
