package rtp

import "time"

// routineInterval resolves the configured RTCP cadence, falling back to
// DefaultRTCPInterval.
func (e *SessionEngine) routineInterval() time.Duration {
	if e.config.RTCPInterval > 0 {
		return time.Duration(e.config.RTCPInterval)
	}
	return DefaultRTCPInterval
}

// routineReportLoop periodically emits a per-participant routine report
// compound while the engine is running, the third of the three compound
// shapes RtcpAutomation is responsible for alongside join and leave.
func (e *SessionEngine) routineReportLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.routineInterval())
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			rtpTimestamp := e.lastRTPTimestamp.Load()
			e.registry.withReadLock(func(_ uint32, ctx *ParticipantContext) {
				if !ctx.acceptsOutbound() {
					return
				}
				compound := e.automation.BuildRoutineCompound(e.local, ctx, rtpTimestamp)
				e.sendControlTo(ctx.Participant.ControlAddress, compound)
			})
		}
	}
}
