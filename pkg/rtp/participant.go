package rtp

import (
	"crypto/rand"
	"encoding/binary"
	"net"
)

// RtpParticipant is the stable identity of a remote or local source: an
// SSRC plus the UDP endpoints it is reachable at and the optional
// descriptive fields SDES populates.
type RtpParticipant struct {
	SSRC           uint32
	DataAddress    *net.UDPAddr
	ControlAddress *net.UDPAddr

	CNAME    string
	Name     string
	Email    string
	Phone    string
	Location string
	Tool     string
	Note     string
}

// NewLocalParticipant builds the participant record representing this
// host: a freshly generated SSRC and the two addresses the engine will
// bind to.
func NewLocalParticipant(dataAddr, controlAddr *net.UDPAddr) (*RtpParticipant, error) {
	ssrc, err := randomSSRC()
	if err != nil {
		return nil, err
	}
	return &RtpParticipant{
		SSRC:           ssrc,
		DataAddress:    dataAddr,
		ControlAddress: controlAddr,
	}, nil
}

// ResolveSSRCConflict returns a fresh SSRC guaranteed to differ from the
// observed colliding value, grounded on the teacher's crypto/rand SSRC
// minting used at construction time.
func (p *RtpParticipant) ResolveSSRCConflict(observed uint32) (uint32, error) {
	for {
		candidate, err := randomSSRC()
		if err != nil {
			return 0, err
		}
		if candidate != observed && candidate != p.SSRC {
			return candidate, nil
		}
	}
}

func randomSSRC() (uint32, error) {
	var ssrc uint32
	if err := binary.Read(rand.Reader, binary.BigEndian, &ssrc); err != nil {
		return 0, err
	}
	return ssrc, nil
}

func addrEqual(a, b *net.UDPAddr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.IP.Equal(b.IP) && a.Port == b.Port
}
