package rtp

import (
	"errors"
	"fmt"
)

// wrapf wraps a sentinel with caller-supplied detail while preserving
// errors.Is matching against the sentinel.
func wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)
}

// Sentinel error kinds returned by the session engine. Callers match
// against these with errors.Is rather than string comparison.
var (
	// ErrInvalidPayloadType is returned by New when payload_type is
	// outside [0, 127].
	ErrInvalidPayloadType = errors.New("rtp: payload type out of range [0, 127]")

	// ErrBindFailure is returned by Init when a transport bind fails.
	ErrBindFailure = errors.New("rtp: transport bind failure")

	// ErrConfigurationImmutable is returned by configuration setters
	// invoked after Init.
	ErrConfigurationImmutable = errors.New("rtp: configuration is immutable once running")

	// ErrSendRejected names the rejection of a send when the engine is
	// not running, or of SendControlPacket with automated RTCP handling
	// on. The send methods report such a rejection only as a boolean
	// false; none of them returns this value.
	ErrSendRejected = errors.New("rtp: send rejected")

	// ErrLoopDetected is the terminate() cause when inbound traffic
	// from our own data address claims our own SSRC.
	ErrLoopDetected = errors.New("rtp: loop detected")

	// ErrCollisionLimitExceeded is the terminate() cause when foreign
	// SSRC collisions exceed MaxCollisionsBeforeConsideringLoop.
	ErrCollisionLimitExceeded = errors.New("rtp: loop detected after exceeding ssrc collision limit")
)
