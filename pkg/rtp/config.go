package rtp

// SessionConfig carries every option recognized by SessionEngine. Options
// are read once at Init and become immutable afterward; mutating them
// through UpdateConfig while running returns ErrConfigurationImmutable.
type SessionConfig struct {
	// DiscardOutOfOrder drops inbound RTP whose sequence number is not
	// strictly greater than the context's last seen value.
	DiscardOutOfOrder bool

	// SendBufferSize is the socket send buffer hint passed to the
	// transport at bind time.
	SendBufferSize int

	// ReceiveBufferSize is the socket receive buffer hint and the fixed
	// size of the per-read datagram predictor.
	ReceiveBufferSize int

	// MaxCollisionsBeforeConsideringLoop bounds how many foreign-origin
	// SSRC collisions are tolerated before the engine declares a loop
	// and terminates.
	MaxCollisionsBeforeConsideringLoop uint32

	// AutomatedRTCPHandling, when true, has the engine emit join/leave/
	// routine RTCP compounds automatically and rejects explicit
	// SendControlPacket calls (except APP_DATA).
	AutomatedRTCPHandling bool

	// Host is informational only; it is never interpreted by the
	// engine.
	Host string

	// Logger receives structured diagnostics scoped to this engine. A
	// zero value logs nothing (see NewSessionLogger).
	Logger SessionLogger

	// RTCPInterval overrides the routine-report cadence, which otherwise
	// is DefaultRTCPInterval. Zero selects the default.
	RTCPInterval int64 // nanoseconds; see session_routine.go for use

	// AdmissionPolicy decides whether to create a participant context
	// for a previously-unseen SSRC. A nil value admits everything.
	AdmissionPolicy AdmissionPolicy
}

// DefaultSessionConfig returns the configuration defaults named in the
// external interfaces table: discard-out-of-order and automated RTCP
// handling on, 1500-byte buffers, and a collision tolerance of 3.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		DiscardOutOfOrder:                  true,
		SendBufferSize:                     DefaultBufferSize,
		ReceiveBufferSize:                  DefaultBufferSize,
		MaxCollisionsBeforeConsideringLoop: 3,
		AutomatedRTCPHandling:              true,
	}
}

// UpdateConfig applies mutate to the engine's configuration while it is
// still in the created state, before Init binds any transport. Once Init
// has run (successfully or not), UpdateConfig returns
// ErrConfigurationImmutable instead of mutating anything.
func (e *SessionEngine) UpdateConfig(mutate func(*SessionConfig)) error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	if e.fsm.current() != stateCreated {
		return ErrConfigurationImmutable
	}
	mutate(&e.config)
	return nil
}

func (c *SessionConfig) applyDefaults() {
	if c.SendBufferSize == 0 {
		c.SendBufferSize = DefaultBufferSize
	}
	if c.ReceiveBufferSize == 0 {
		c.ReceiveBufferSize = DefaultBufferSize
	}
	if c.MaxCollisionsBeforeConsideringLoop == 0 {
		c.MaxCollisionsBeforeConsideringLoop = 3
	}
	if c.AdmissionPolicy == nil {
		c.AdmissionPolicy = AlwaysAdmit{}
	}
}
