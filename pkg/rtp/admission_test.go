package rtp

import (
	"net"
	"testing"

	"github.com/pion/rtp"
	"github.com/stretchr/testify/assert"
)

func TestAlwaysAdmitBuildsParticipantFromOrigin(t *testing.T) {
	origin := &net.UDPAddr{IP: net.ParseIP("192.168.1.5"), Port: 6000}
	packet := &rtp.Packet{Header: rtp.Header{SSRC: 1234}}

	decision := AlwaysAdmit{}.AdmitUnknown(origin, packet)
	assert.True(t, decision.create)
	assert.Equal(t, uint32(1234), decision.participant.SSRC)
	assert.Equal(t, origin, decision.participant.DataAddress)
}

func TestRejectSuppressesCreation(t *testing.T) {
	decision := Reject()
	assert.False(t, decision.create)
	assert.Nil(t, decision.participant)
}

func TestCreateWrapsParticipant(t *testing.T) {
	p := &RtpParticipant{SSRC: 1}
	decision := Create(p)
	assert.True(t, decision.create)
	assert.Same(t, p, decision.participant)
}
