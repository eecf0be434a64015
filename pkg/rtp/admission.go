package rtp

import (
	"net"

	"github.com/pion/rtp"
)

// ParticipantDecision is the outcome an AdmissionPolicy returns for a
// previously-unseen SSRC.
type ParticipantDecision struct {
	create      bool
	participant *RtpParticipant
}

// Create admits the unknown source, attaching the given participant
// record to a fresh registry context.
func Create(p *RtpParticipant) ParticipantDecision {
	return ParticipantDecision{create: true, participant: p}
}

// Reject suppresses context creation; the triggering packet is dropped.
func Reject() ParticipantDecision {
	return ParticipantDecision{}
}

// AdmissionPolicy decides whether to create a participant context for a
// source first observed via inbound RTP data. This replaces a nullable
// subclass hook with an explicit interface (see spec's design notes on
// hook-based nullable context).
type AdmissionPolicy interface {
	AdmitUnknown(origin net.Addr, firstPacket *rtp.Packet) ParticipantDecision
}

// AlwaysAdmit is the default AdmissionPolicy: every unknown SSRC is
// admitted with a participant built from the packet's origin and SSRC.
type AlwaysAdmit struct{}

func (AlwaysAdmit) AdmitUnknown(origin net.Addr, firstPacket *rtp.Packet) ParticipantDecision {
	udpAddr, _ := origin.(*net.UDPAddr)
	return Create(&RtpParticipant{
		SSRC:        firstPacket.SSRC,
		DataAddress: udpAddr,
	})
}
