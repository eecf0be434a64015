package rtp

import (
	"net"

	"github.com/pion/rtp"
)

// SendData constructs a DataPacket from payload, stamps it with the
// engine's payload type, local SSRC, and the next sequence number, and
// fans it out to every non-BYE participant. Returns false if the engine
// is not running.
func (e *SessionEngine) SendData(payload []byte, timestamp uint32, marker bool) bool {
	packet := &rtp.Packet{
		Header: rtp.Header{
			Marker:      marker,
			Timestamp:   timestamp,
			PayloadType: e.payloadType,
		},
		Payload: payload,
	}
	return e.SendDataPacket(packet)
}

// SendDataPacket sends a caller-built packet, overwriting its
// payload_type, ssrc, and sequence_number with the engine's own before
// fanning it out.
func (e *SessionEngine) SendDataPacket(packet *rtp.Packet) bool {
	if !e.IsRunning() {
		return false
	}
	packet.Header.PayloadType = e.payloadType
	packet.Header.SSRC = e.local.SSRC
	packet.Header.SequenceNumber = e.sequence.Next()

	e.lastRTPTimestamp.Store(packet.Header.Timestamp)
	e.markTrafficSeen()
	return e.sendToAllData(packet)
}

func (e *SessionEngine) receiveDataLoop() {
	defer e.wg.Done()
	for {
		payload, origin, err := e.dataTransport.Receive(e.ctx)
		if err != nil {
			if e.ctx.Err() != nil {
				return
			}
			e.logger.warnErr(err, "data transport receive error")
			continue
		}

		packet := &rtp.Packet{}
		if err := packet.Unmarshal(payload); err != nil {
			e.logger.warnErr(err, "dropping malformed inbound rtp packet")
			continue
		}

		e.onData(origin, packet)
	}
}

// onData implements the inbound data path (§4.2 of the governing design):
// running check, payload type filter, loop/collision detection, context
// resolution via the admission policy, out-of-order policy, address
// repair, and data-observer fanout.
func (e *SessionEngine) onData(origin net.Addr, packet *rtp.Packet) {
	if !e.IsRunning() {
		return
	}
	if !e.payloadTypeMatches(packet.PayloadType) {
		return
	}

	if packet.SSRC == e.local.SSRC {
		if e.originIsLocalDataAddress(origin) {
			// Terminate waits for the receive loops to exit, and onData runs
			// on the data receive loop, so termination is started on its own
			// goroutine.
			go e.TerminateWithCause(wrapf(ErrLoopDetected, "inbound packet from own data address claims own ssrc"))
			return
		}
		if !e.handleForeignCollision(origin, packet) {
			return
		}
	}

	ctx, created := e.registry.GetOrCreate(packet.SSRC, func() *RtpParticipant {
		decision := e.config.AdmissionPolicy.AdmitUnknown(origin, packet)
		if !decision.create {
			return nil
		}
		return decision.participant
	})
	if ctx == nil {
		return
	}
	if created {
		e.fanout.notifyJoinedFromData(e, ctx.Participant, packet)
	}

	if e.config.DiscardOutOfOrder && ctx.HasLastSequenceNumber && ctx.LastSequenceNumber >= packet.SequenceNumber {
		// Sequence numbers are compared as plain 16-bit integers here,
		// faithfully preserving the source's wrap-around mishandling
		// near 65535 rather than silently correcting it.
		return
	}
	ctx.HasLastSequenceNumber = true
	ctx.LastSequenceNumber = packet.SequenceNumber
	ctx.ReceivedPackets++
	ctx.ReceivedBytes += uint64(len(packet.Payload))

	if udpOrigin, ok := origin.(*net.UDPAddr); ok && !addrEqual(udpOrigin, ctx.Participant.DataAddress) {
		// Deliberately contradicts RFC 3550 to cope with NAT rebinding.
		ctx.Participant.DataAddress = udpOrigin
	}

	e.markTrafficSeen()
	e.metrics.packetsReceived.Inc()
	e.fanout.notifyData(e, ctx.Participant, packet)
}

func (e *SessionEngine) originIsLocalDataAddress(origin net.Addr) bool {
	udpOrigin, ok := origin.(*net.UDPAddr)
	if !ok {
		return false
	}
	return addrEqual(udpOrigin, e.local.DataAddress)
}

// handleForeignCollision implements step 3's foreign-origin branch:
// count the collision, terminate if the limit is exceeded, otherwise
// rotate the local SSRC (emitting a BYE/join pair only if traffic has
// already been seen under the old SSRC) and notify event observers.
// Returns false, so the packet is dropped, if the limit was exceeded and
// termination has been started, or if a new SSRC could not be generated.
func (e *SessionEngine) handleForeignCollision(origin net.Addr, packet *rtp.Packet) bool {
	count, exceeded := e.collision.RegisterForeignCollision()
	e.metrics.collisions.Inc()
	if exceeded {
		go e.TerminateWithCause(wrapf(ErrCollisionLimitExceeded, "after %d ssrc collisions", count))
		return false
	}

	oldSSRC := e.local.SSRC
	newSSRC, err := e.local.ResolveSSRCConflict(packet.SSRC)
	if err != nil {
		e.logger.warnErr(err, "failed to resolve ssrc conflict")
		return false
	}
	e.metrics.ssrcRotations.Inc()
	oldLocal := *e.local // retains CNAME/address identity for the leave compound

	hadTraffic := e.markTrafficSeen()
	e.local.SSRC = newSSRC

	if hadTraffic && e.config.AutomatedRTCPHandling {
		e.emitRotationCompounds(&oldLocal)
	}

	e.fanout.notifyResolvedSSRCConflict(e, oldSSRC, newSSRC)
	return true
}

func (e *SessionEngine) emitRotationCompounds(oldLocal *RtpParticipant) {
	rtpTimestamp := e.lastRTPTimestamp.Load()
	e.registry.withReadLock(func(_ uint32, ctx *ParticipantContext) {
		leave := e.automation.BuildLeaveCompound(oldLocal, ctx, "ssrc rotated", rtpTimestamp)
		e.sendControlTo(ctx.Participant.ControlAddress, leave)
	})
	e.sendCompound(e.automation.BuildJoinCompound(e.local))
}
