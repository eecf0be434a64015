package rtp

import (
	"sync"

	"github.com/pion/rtcp"
	"github.com/pion/rtp"
)

// DataListener receives every inbound data packet accepted past the
// out-of-order and loop/collision checks.
type DataListener interface {
	DataPacketReceived(engine *SessionEngine, participant *RtpParticipant, packet *rtp.Packet)
}

// ControlListener receives raw inbound control compounds when automated
// RTCP handling is disabled, and APP_DATA packets through AppDataReceived
// when it is enabled. With automation disabled, APP_DATA packets arrive
// only inside the compound passed to ControlPacketReceived.
type ControlListener interface {
	ControlPacketReceived(engine *SessionEngine, compound []rtcp.Packet)
	AppDataReceived(engine *SessionEngine, packet *rtcp.RawPacket)
}

// EventListener receives lifecycle and membership notifications.
type EventListener interface {
	ResolvedSSRCConflict(engine *SessionEngine, oldSSRC, newSSRC uint32)
	ParticipantJoinedFromData(engine *SessionEngine, p *RtpParticipant, packet *rtp.Packet)
	ParticipantJoinedFromControl(engine *SessionEngine, p *RtpParticipant, chunk *rtcp.SourceDescriptionChunk)
	ParticipantDataUpdated(engine *SessionEngine, p *RtpParticipant)
	ParticipantLeft(engine *SessionEngine, p *RtpParticipant, reason string)
	SessionTerminated(engine *SessionEngine, cause error)
}

// observerFanout holds append-only, snapshot-iterated listener lists for
// the three observer channels. A registration concurrent with dispatch is
// not required to be visible to a dispatch already in flight, but
// iteration must never corrupt or skip an already-registered listener —
// each add/remove copies the backing slice rather than mutating it in
// place.
type observerFanout struct {
	mu      sync.Mutex
	data    []DataListener
	control []ControlListener
	event   []EventListener
	logger  SessionLogger
}

func newObserverFanout(logger SessionLogger) *observerFanout {
	return &observerFanout{logger: logger}
}

func (f *observerFanout) addData(l DataListener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = appendCopy(f.data, l)
}

func (f *observerFanout) removeData(l DataListener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = removeCopy(f.data, l)
}

func (f *observerFanout) addControl(l ControlListener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.control = appendCopy(f.control, l)
}

func (f *observerFanout) removeControl(l ControlListener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.control = removeCopy(f.control, l)
}

func (f *observerFanout) addEvent(l EventListener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.event = appendCopy(f.event, l)
}

func (f *observerFanout) removeEvent(l EventListener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.event = removeCopy(f.event, l)
}

func (f *observerFanout) clearData() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = nil
}

func (f *observerFanout) clearControl() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.control = nil
}

func (f *observerFanout) clearEvent() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.event = nil
}

func (f *observerFanout) snapshotData() []DataListener {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data
}

func (f *observerFanout) snapshotControl() []ControlListener {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.control
}

func (f *observerFanout) snapshotEvent() []EventListener {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.event
}

func (f *observerFanout) notifyData(engine *SessionEngine, p *RtpParticipant, packet *rtp.Packet) {
	for _, l := range f.snapshotData() {
		f.guard("data listener", func() { l.DataPacketReceived(engine, p, packet) })
	}
}

func (f *observerFanout) notifyControl(engine *SessionEngine, compound []rtcp.Packet) {
	for _, l := range f.snapshotControl() {
		f.guard("control listener", func() { l.ControlPacketReceived(engine, compound) })
	}
}

func (f *observerFanout) notifyAppData(engine *SessionEngine, packet *rtcp.RawPacket) {
	for _, l := range f.snapshotControl() {
		f.guard("control listener", func() { l.AppDataReceived(engine, packet) })
	}
}

func (f *observerFanout) notifyResolvedSSRCConflict(engine *SessionEngine, oldSSRC, newSSRC uint32) {
	for _, l := range f.snapshotEvent() {
		f.guard("event listener", func() { l.ResolvedSSRCConflict(engine, oldSSRC, newSSRC) })
	}
}

func (f *observerFanout) notifyJoinedFromData(engine *SessionEngine, p *RtpParticipant, packet *rtp.Packet) {
	for _, l := range f.snapshotEvent() {
		f.guard("event listener", func() { l.ParticipantJoinedFromData(engine, p, packet) })
	}
}

func (f *observerFanout) notifyJoinedFromControl(engine *SessionEngine, p *RtpParticipant, chunk *rtcp.SourceDescriptionChunk) {
	for _, l := range f.snapshotEvent() {
		f.guard("event listener", func() { l.ParticipantJoinedFromControl(engine, p, chunk) })
	}
}

func (f *observerFanout) notifyDataUpdated(engine *SessionEngine, p *RtpParticipant) {
	for _, l := range f.snapshotEvent() {
		f.guard("event listener", func() { l.ParticipantDataUpdated(engine, p) })
	}
}

func (f *observerFanout) notifyParticipantLeft(engine *SessionEngine, p *RtpParticipant, reason string) {
	for _, l := range f.snapshotEvent() {
		f.guard("event listener", func() { l.ParticipantLeft(engine, p, reason) })
	}
}

func (f *observerFanout) notifyTerminated(engine *SessionEngine, cause error) {
	for _, l := range f.snapshotEvent() {
		f.guard("event listener", func() { l.SessionTerminated(engine, cause) })
	}
}

// guard recovers from an observer panic and logs it instead of letting it
// escape to the calling goroutine — an observer callback must never take
// down the engine's receive loop.
func (f *observerFanout) guard(component string, call func()) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.recoveredPanic(component, r)
		}
	}()
	call()
}

func appendCopy[T comparable](list []T, item T) []T {
	out := make([]T, len(list), len(list)+1)
	copy(out, list)
	return append(out, item)
}

func removeCopy[T comparable](list []T, item T) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if v != item {
			out = append(out, v)
		}
	}
	return out
}
