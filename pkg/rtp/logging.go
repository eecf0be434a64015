package rtp

import (
	"io"

	"github.com/rs/zerolog"
)

// SessionLogger is the engine-scoped structured logger handle passed at
// construction, replacing a process-wide logger singleton. A zero value
// is a valid, silent logger.
type SessionLogger struct {
	log    zerolog.Logger
	active bool
}

// NewSessionLogger wraps an existing zerolog.Logger, tagging every entry
// with the session id so logs from concurrent engines interleave legibly.
func NewSessionLogger(base zerolog.Logger, sessionID string) SessionLogger {
	return SessionLogger{log: base.With().Str("session_id", sessionID).Logger(), active: true}
}

// DiscardSessionLogger returns a logger that drops every entry, the
// default when SessionConfig.Logger is left unset.
func DiscardSessionLogger() SessionLogger {
	return SessionLogger{log: zerolog.New(io.Discard), active: true}
}

// IsZero reports whether this is the unconfigured zero value, as opposed
// to an explicitly constructed (possibly discarding) logger.
func (l SessionLogger) IsZero() bool {
	return !l.active
}

func (l SessionLogger) withSSRC(ssrc uint32) zerolog.Context {
	return l.log.With().Uint32("ssrc", ssrc)
}

func (l SessionLogger) infof(msg string) {
	l.log.Info().Msg(msg)
}

func (l SessionLogger) warnErr(err error, msg string) {
	l.log.Warn().Err(err).Msg(msg)
}

func (l SessionLogger) ssrcEvent(ssrc uint32, msg string) {
	l.withSSRC(ssrc).Logger().Info().Msg(msg)
}

func (l SessionLogger) recoveredPanic(component string, r any) {
	l.log.Error().Str("component", component).Interface("panic", r).Msg("recovered from observer panic")
}
