package rtp

import (
	"fmt"

	"github.com/pion/rtcp"
)

// toolVersion is the fixed TOOL identifier auto-populated into outbound
// SDES when the local participant leaves it unset.
const toolVersion = "efflux-go"

// packetBuilders assembles the SDES chunk describing a local participant
// from its attributes, the one piece of wire-facing construction logic
// RtcpAutomation delegates out rather than inlining, per the component
// table's separate PacketBuilders entry.
type packetBuilders struct {
	sessionID string
}

// buildSDES assembles the local source's SDES chunk. CNAME and TOOL are
// auto-synthesized when unset; NAME/EMAIL/PHONE/LOCATION/NOTE are
// included only when the caller populated them. Chunk order follows the
// field enumeration in the data model.
func (b packetBuilders) buildSDES(local *RtpParticipant) *rtcp.SourceDescription {
	cname := local.CNAME
	if cname == "" {
		addr := "unbound"
		if local.DataAddress != nil {
			addr = local.DataAddress.String()
		}
		cname = fmt.Sprintf("efflux/%s@%s", b.sessionID, addr)
	}

	tool := local.Tool
	if tool == "" {
		tool = toolVersion
	}

	items := []rtcp.SourceDescriptionItem{
		{Type: rtcp.SDESCNAME, Text: cname},
	}
	if local.Name != "" {
		items = append(items, rtcp.SourceDescriptionItem{Type: rtcp.SDESName, Text: local.Name})
	}
	if local.Email != "" {
		items = append(items, rtcp.SourceDescriptionItem{Type: rtcp.SDESEmail, Text: local.Email})
	}
	if local.Phone != "" {
		items = append(items, rtcp.SourceDescriptionItem{Type: rtcp.SDESPhone, Text: local.Phone})
	}
	if local.Location != "" {
		items = append(items, rtcp.SourceDescriptionItem{Type: rtcp.SDESLocation, Text: local.Location})
	}
	items = append(items, rtcp.SourceDescriptionItem{Type: rtcp.SDESTool, Text: tool})
	if local.Note != "" {
		items = append(items, rtcp.SourceDescriptionItem{Type: rtcp.SDESNote, Text: local.Note})
	}

	return &rtcp.SourceDescription{
		Chunks: []rtcp.SourceDescriptionChunk{{
			Source: local.SSRC,
			Items:  items,
		}},
	}
}

// receptionReports returns, at most, one reception report block for ctx,
// per spec: "exactly one ReceptionReport block for the participant" when
// ctx.ReceivedPackets > 0. Every metric slot is zero-filled — reception
// statistics are a placeholder pending a future metrics component.
func (b packetBuilders) receptionReports(ctx *ParticipantContext) []rtcp.ReceptionReport {
	if ctx.ReceivedPackets == 0 {
		return nil
	}
	return []rtcp.ReceptionReport{{
		SSRC:               ctx.Participant.SSRC,
		FractionLost:       0,
		TotalLost:          0,
		LastSequenceNumber: 0,
		Jitter:             0,
		LastSenderReport:   0,
		Delay:              0,
	}}
}
