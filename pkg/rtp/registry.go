package rtp

import "sync"

// ParticipantRegistry is the concurrent SSRC→ParticipantContext map.
// Grounded on the teacher's SourceManager (source_manager.go): a single
// sync.RWMutex disciplines the whole map, read-locked for lookup and
// fanout iteration, write-locked for insert/remove/get-or-create.
//
// Recursive acquisition is forbidden: callers holding the read lock for
// fanout must not call back into a write-locked method.
type ParticipantRegistry struct {
	mu    sync.RWMutex
	byssc map[uint32]*ParticipantContext
}

func newParticipantRegistry() *ParticipantRegistry {
	return &ParticipantRegistry{byssc: make(map[uint32]*ParticipantContext)}
}

// Get returns the context for ssrc, or nil if unknown.
func (r *ParticipantRegistry) Get(ssrc uint32) *ParticipantContext {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byssc[ssrc]
}

// Insert adds p under a fresh context if ssrc is not already present.
// Reports whether a new entry was created.
func (r *ParticipantRegistry) Insert(p *RtpParticipant) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byssc[p.SSRC]; exists {
		return false
	}
	r.byssc[p.SSRC] = newParticipantContext(p)
	return true
}

// Remove deletes and returns the context for ssrc, or nil if absent.
func (r *ParticipantRegistry) Remove(ssrc uint32) *ParticipantContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx, exists := r.byssc[ssrc]
	if !exists {
		return nil
	}
	delete(r.byssc, ssrc)
	return ctx
}

// GetOrCreate returns the existing context for ssrc, or creates one via
// admission and inserts it. The second return reports whether a new
// context was created (false for both "already existed" and "admission
// rejected").
func (r *ParticipantRegistry) GetOrCreate(ssrc uint32, create func() *RtpParticipant) (ctx *ParticipantContext, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byssc[ssrc]; ok {
		return existing, false
	}
	p := create()
	if p == nil {
		return nil, false
	}
	ctx = newParticipantContext(p)
	r.byssc[ssrc] = ctx
	return ctx, true
}

// Snapshot returns a defensive copy of all contexts, suitable for callers
// that need a read-only view (GetRemoteParticipants).
func (r *ParticipantRegistry) Snapshot() map[uint32]*ParticipantContext {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[uint32]*ParticipantContext, len(r.byssc))
	for k, v := range r.byssc {
		out[k] = v
	}
	return out
}

// withReadLock runs fn while holding the registry's read lock, iterating
// every context. Used by outbound fanout so recipient addresses observed
// during the loop cannot be concurrently removed out from under the
// transport write — writes are issued under this read lock by design.
func (r *ParticipantRegistry) withReadLock(fn func(ssrc uint32, ctx *ParticipantContext)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for ssrc, ctx := range r.byssc {
		fn(ssrc, ctx)
	}
}

func (r *ParticipantRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byssc)
}
