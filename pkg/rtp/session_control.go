package rtp

import (
	"net"

	"github.com/pion/rtcp"
)

// SendControlPacket sends compound explicitly. Permitted only when
// automated RTCP handling is off, except for APP_DATA packets which are
// always permitted regardless of the automation setting.
func (e *SessionEngine) SendControlPacket(compound []rtcp.Packet) bool {
	if !e.IsRunning() {
		return false
	}
	if e.config.AutomatedRTCPHandling && !isAppDataOnly(compound) {
		return false
	}
	return e.sendCompound(compound)
}

func isAppDataOnly(compound []rtcp.Packet) bool {
	for _, p := range compound {
		if p.Header().Type != rtcp.TypeApplicationDefined {
			return false
		}
	}
	return len(compound) > 0
}

func (e *SessionEngine) receiveControlLoop() {
	defer e.wg.Done()
	for {
		payload, origin, err := e.controlTransport.Receive(e.ctx)
		if err != nil {
			if e.ctx.Err() != nil {
				return
			}
			e.logger.warnErr(err, "control transport receive error")
			continue
		}

		compound, err := rtcp.Unmarshal(payload)
		if err != nil {
			e.logger.warnErr(err, "dropping malformed inbound rtcp compound")
			continue
		}

		e.onControl(origin, compound)
	}
}

// onControl implements the inbound control path (§4.3): when automation
// is off, the raw compound is simply forwarded to control observers;
// otherwise each inner packet is dispatched by an exclusive type switch —
// APP_DATA delivery never falls through to the unknown-type branch,
// fixing the fallthrough the source's dispatch notionally invited.
func (e *SessionEngine) onControl(origin net.Addr, compound []rtcp.Packet) {
	if !e.IsRunning() {
		return
	}

	if !e.config.AutomatedRTCPHandling {
		e.fanout.notifyControl(e, compound)
		return
	}

	for _, packet := range compound {
		switch p := packet.(type) {
		case *rtcp.SenderReport:
			e.onReport(p.SSRC, p.Reports)
		case *rtcp.ReceiverReport:
			e.onReport(p.SSRC, p.Reports)
		case *rtcp.SourceDescription:
			e.onSourceDescription(origin, p)
		case *rtcp.Goodbye:
			e.onGoodbye(p)
		case *rtcp.RawPacket:
			if p.Header().Type == rtcp.TypeApplicationDefined {
				e.fanout.notifyAppData(e, p)
			}
			// Unknown raw types are skipped, not forwarded.
		default:
			// Unknown type: skip.
		}
	}
}

// onReport implements §4.3.1: a sender/receiver report is only
// meaningful once the reporting SSRC is already a known participant
// (seen via RTP data or SDES first). Reception report blocks not
// targeting our own SSRC are discarded; metrics absorption from the ones
// that do target us is a placeholder pending a future metrics component.
func (e *SessionEngine) onReport(senderSSRC uint32, reports []rtcp.ReceptionReport) {
	if e.registry.Get(senderSSRC) == nil {
		return
	}
	for _, r := range reports {
		if r.SSRC != e.local.SSRC {
			continue
		}
		// Placeholder: fraction lost / jitter / cumulative lost from
		// this block would feed a future metrics component here.
	}
}

// onSourceDescription implements §4.3.2.
func (e *SessionEngine) onSourceDescription(origin net.Addr, sdes *rtcp.SourceDescription) {
	udpOrigin, _ := origin.(*net.UDPAddr)
	for _, chunk := range sdes.Chunks {
		chunk := chunk
		ctx, created := e.registry.GetOrCreate(chunk.Source, func() *RtpParticipant {
			p := &RtpParticipant{SSRC: chunk.Source, ControlAddress: udpOrigin}
			applySDESItems(p, chunk.Items)
			return p
		})
		if ctx == nil {
			continue
		}
		if created {
			ctx.SdesReceived = true
			e.fanout.notifyJoinedFromControl(e, ctx.Participant, &chunk)
		} else if !ctx.SdesReceived {
			applySDESItems(ctx.Participant, chunk.Items)
			ctx.SdesReceived = true
			e.fanout.notifyDataUpdated(e, ctx.Participant)
		}
		if udpOrigin != nil && !addrEqual(udpOrigin, ctx.Participant.ControlAddress) {
			ctx.Participant.ControlAddress = udpOrigin
		}
	}
}

func applySDESItems(p *RtpParticipant, items []rtcp.SourceDescriptionItem) {
	for _, item := range items {
		switch item.Type {
		case rtcp.SDESCNAME:
			p.CNAME = item.Text
		case rtcp.SDESName:
			p.Name = item.Text
		case rtcp.SDESEmail:
			p.Email = item.Text
		case rtcp.SDESPhone:
			p.Phone = item.Text
		case rtcp.SDESLocation:
			p.Location = item.Text
		case rtcp.SDESTool:
			p.Tool = item.Text
		case rtcp.SDESNote:
			p.Note = item.Text
		}
	}
}

// onGoodbye implements §4.3.3: latch bye_received on every listed
// participant that is known, without removing it from the registry. The
// BYE's optional Reason is surfaced on the participant_left event rather
// than stored, since the context has no use for it beyond notification.
func (e *SessionEngine) onGoodbye(bye *rtcp.Goodbye) {
	for _, ssrc := range bye.Sources {
		ctx := e.registry.Get(ssrc)
		if ctx == nil {
			continue
		}
		ctx.ByeReceived = true
		e.fanout.notifyParticipantLeft(e, ctx.Participant, bye.Reason)
	}
}
