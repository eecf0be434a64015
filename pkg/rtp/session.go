package rtp

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// SessionEngine is the top-level orchestrator: it binds the data and
// control transports, accepts inbound packets, dispatches them to the
// registry, RtcpAutomation, and observers, and exposes the engine's
// public operations.
//
// Grounded on the teacher's Session (pkg/rtp/session.go): struct
// composition of sub-components, a state-guarding mutex, and
// constructor-time validation, generalized from a single fixed remote
// peer to a concurrent multi-participant registry per the data model.
type SessionEngine struct {
	id          string
	payloadType uint8
	local       *RtpParticipant
	config      SessionConfig
	logger      SessionLogger

	registry  *ParticipantRegistry
	sequence  SequenceCounter
	collision *CollisionDetector
	automation *RtcpAutomation
	fanout    *observerFanout

	fsm        *engineFSM
	lifecycleMu sync.Mutex

	sentOrReceivedPackets atomic.Bool
	lastRTPTimestamp      atomic.Uint32

	dataTransport    Transport
	controlTransport Transport

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics *engineMetrics
}

// New constructs an engine in the Created state. It fails with
// ErrInvalidPayloadType if payloadType is outside [0, 127].
func New(id string, payloadType int, local *RtpParticipant, config SessionConfig) (*SessionEngine, error) {
	if payloadType < 0 || payloadType > 127 {
		return nil, wrapf(ErrInvalidPayloadType, "got %d", payloadType)
	}
	if id == "" {
		id = uuid.NewString()
	}
	config.applyDefaults()

	logger := config.Logger
	if logger.IsZero() {
		logger = DiscardSessionLogger()
	}

	return &SessionEngine{
		id:          id,
		payloadType: uint8(payloadType),
		local:       local,
		config:      config,
		logger:      logger,
		registry:    newParticipantRegistry(),
		collision:   newCollisionDetector(config.MaxCollisionsBeforeConsideringLoop),
		automation:  newRtcpAutomation(id),
		fanout:      newObserverFanout(logger),
		fsm:         newEngineFSM(),
		metrics:     newEngineMetrics(),
	}, nil
}

// ID returns the engine's session identifier.
func (e *SessionEngine) ID() string { return e.id }

// LocalParticipant returns the local identity this engine binds as.
func (e *SessionEngine) LocalParticipant() *RtpParticipant { return e.local }

// IsRunning reports whether the engine is in the Running state.
func (e *SessionEngine) IsRunning() bool { return e.fsm.isRunning() }

// Init binds the data and control transports and, on success, emits the
// join RTCP compound and transitions to Running. It is idempotent: a
// second call while already running or failed returns the prior outcome
// without rebinding, and init/terminate calls are serialized against each
// other.
func (e *SessionEngine) Init() bool {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	if e.fsm.current() != stateCreated {
		return e.fsm.isRunning()
	}

	dataTransport, err := BindUDPTransport(TransportConfig{
		LocalAddr:         e.local.DataAddress,
		SendBufferSize:    e.config.SendBufferSize,
		ReceiveBufferSize: e.config.ReceiveBufferSize,
	})
	if err != nil {
		e.logger.warnErr(err, "failed to bind data transport")
		_ = e.fsm.fireInitFailure(context.Background())
		return false
	}

	controlTransport, err := BindUDPTransport(TransportConfig{
		LocalAddr:         e.local.ControlAddress,
		SendBufferSize:    e.config.SendBufferSize,
		ReceiveBufferSize: e.config.ReceiveBufferSize,
	})
	if err != nil {
		e.logger.warnErr(err, "failed to bind control transport")
		_ = dataTransport.Close()
		_ = e.fsm.fireInitFailure(context.Background())
		return false
	}

	e.dataTransport = dataTransport
	e.controlTransport = controlTransport
	e.ctx, e.cancel = context.WithCancel(context.Background())

	if err := e.fsm.fireInitSuccess(context.Background()); err != nil {
		_ = dataTransport.Close()
		_ = controlTransport.Close()
		return false
	}

	e.wg.Add(2)
	go e.receiveDataLoop()
	go e.receiveControlLoop()

	if e.config.AutomatedRTCPHandling {
		e.sendCompound(e.automation.BuildJoinCompound(e.local))
		e.wg.Add(1)
		go e.routineReportLoop()
	}

	e.metrics.sessionsRunning.Inc()
	return true
}

// Terminate is equivalent to calling TerminateWithCause(nil).
func (e *SessionEngine) Terminate() {
	e.terminate(nil)
}

// TerminateWithCause stops the engine with an explicit cause, surfaced to
// event observers via SessionTerminated.
func (e *SessionEngine) TerminateWithCause(cause error) {
	e.terminate(cause)
}

func (e *SessionEngine) terminate(cause error) {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	if e.fsm.isTerminated() {
		return
	}
	wasRunning := e.fsm.isRunning()

	e.fanout.clearData()
	e.fanout.clearControl()

	if wasRunning {
		if e.config.AutomatedRTCPHandling {
			motive := ""
			if cause != nil {
				motive = cause.Error()
			}
			rtpTimestamp := e.lastRTPTimestamp.Load()
			e.registry.withReadLock(func(ssrc uint32, ctx *ParticipantContext) {
				e.sendControlTo(ctx.Participant.ControlAddress, e.automation.BuildLeaveCompound(e.local, ctx, motive, rtpTimestamp))
			})
		}
		if e.dataTransport != nil {
			_ = e.dataTransport.Close()
		}
	}

	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()

	if wasRunning && e.controlTransport != nil {
		_ = e.controlTransport.Close()
	}

	_ = e.fsm.fireTerminate(context.Background())

	e.fanout.notifyTerminated(e, cause)
	e.fanout.clearEvent()
	if wasRunning {
		e.metrics.sessionsRunning.Dec()
	}
}

// AddParticipant inserts remote under a write lock. Returns false if
// remote.SSRC collides with the local participant, or if an entry for
// that SSRC already exists.
func (e *SessionEngine) AddParticipant(remote *RtpParticipant) bool {
	if remote.SSRC == e.local.SSRC {
		return false
	}
	return e.registry.Insert(remote)
}

// RemoveParticipant removes and returns the context for ssrc, or nil.
func (e *SessionEngine) RemoveParticipant(ssrc uint32) *ParticipantContext {
	return e.registry.Remove(ssrc)
}

// GetRemoteParticipant looks up ssrc without mutating the registry.
func (e *SessionEngine) GetRemoteParticipant(ssrc uint32) *ParticipantContext {
	return e.registry.Get(ssrc)
}

// GetRemoteParticipants returns a read-only snapshot of every known
// context, keyed by SSRC.
func (e *SessionEngine) GetRemoteParticipants() map[uint32]*ParticipantContext {
	return e.registry.Snapshot()
}

func (e *SessionEngine) AddDataListener(l DataListener)       { e.fanout.addData(l) }
func (e *SessionEngine) RemoveDataListener(l DataListener)    { e.fanout.removeData(l) }
func (e *SessionEngine) AddControlListener(l ControlListener) { e.fanout.addControl(l) }
func (e *SessionEngine) RemoveControlListener(l ControlListener) {
	e.fanout.removeControl(l)
}
func (e *SessionEngine) AddEventListener(l EventListener)    { e.fanout.addEvent(l) }
func (e *SessionEngine) RemoveEventListener(l EventListener) { e.fanout.removeEvent(l) }

// markTrafficSeen performs the atomic test-and-set on
// sent_or_received_packets, reporting whether it was already set.
func (e *SessionEngine) markTrafficSeen() (wasAlreadySet bool) {
	return e.sentOrReceivedPackets.Swap(true)
}

func (e *SessionEngine) payloadTypeMatches(pt uint8) bool {
	return pt == e.payloadType
}

var _ fmt.Stringer = (*SessionEngine)(nil)

// String identifies the engine for log lines and debugging.
func (e *SessionEngine) String() string {
	return fmt.Sprintf("rtp.SessionEngine{id=%s, ssrc=%08x, state=%s}", e.id, e.local.SSRC, e.fsm.current())
}
