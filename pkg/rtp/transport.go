package rtp

import (
	"context"
	"net"
	"time"
)

// Transport is the abstract connectionless endpoint the engine is handed
// for both the data and control channels. It never interprets payload
// bytes; packet encoding/decoding belongs to the caller supplying
// DataPacket/ControlPacket values.
type Transport interface {
	// Send writes a datagram to peer.
	Send(payload []byte, peer net.Addr) error

	// Receive blocks for the next datagram, returning its origin
	// address alongside the raw bytes. Implementations size their read
	// buffer at ReceiveBufferSize bytes.
	Receive(ctx context.Context) (payload []byte, origin net.Addr, err error)

	// LocalAddr is the bound local address.
	LocalAddr() net.Addr

	// Close releases the transport's resources. Close is idempotent.
	Close() error
}

// TransportConfig configures a concrete Transport at bind time.
type TransportConfig struct {
	LocalAddr         *net.UDPAddr
	SendBufferSize    int
	ReceiveBufferSize int
}

// UDPTransport is the default Transport, a thin wrapper over
// *net.UDPConn. Buffer sizes are applied through the portable
// net.UDPConn setters first, then (on Linux) through a direct
// SO_RCVBUF/SO_SNDBUF setsockopt call for the cases the portable setter's
// doubling policy under-delivers.
type UDPTransport struct {
	conn     *net.UDPConn
	recvSize int
}

// BindUDPTransport opens a UDP socket on cfg.LocalAddr and tunes its
// buffers. It returns ErrBindFailure wrapping the underlying cause on any
// failure.
func BindUDPTransport(cfg TransportConfig) (*UDPTransport, error) {
	conn, err := net.ListenUDP("udp", cfg.LocalAddr)
	if err != nil {
		return nil, wrapf(ErrBindFailure, "listen udp %s: %v", cfg.LocalAddr, err)
	}

	recv := cfg.ReceiveBufferSize
	if recv <= 0 {
		recv = DefaultBufferSize
	}
	send := cfg.SendBufferSize
	if send <= 0 {
		send = DefaultBufferSize
	}

	_ = conn.SetReadBuffer(recv)
	_ = conn.SetWriteBuffer(send)

	if rawConn, rcErr := conn.SyscallConn(); rcErr == nil {
		var sockErr error
		_ = rawConn.Control(func(fd uintptr) {
			sockErr = setSockOptBuffers(int(fd), recv, send)
		})
		_ = sockErr // best effort; portable setters above already applied
	}

	return &UDPTransport{conn: conn, recvSize: recv}, nil
}

func (t *UDPTransport) Send(payload []byte, peer net.Addr) error {
	udpAddr, ok := peer.(*net.UDPAddr)
	if !ok {
		return wrapf(ErrBindFailure, "peer address %v is not a udp address", peer)
	}
	_, err := t.conn.WriteToUDP(payload, udpAddr)
	return err
}

// pollInterval bounds how long a single ReadFromUDP deadline runs before
// Receive rechecks ctx for cancellation.
const pollInterval = 200 * time.Millisecond

func (t *UDPTransport) Receive(ctx context.Context) ([]byte, net.Addr, error) {
	buf := make([]byte, t.recvSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		_ = t.conn.SetReadDeadline(time.Now().Add(pollInterval))
		n, addr, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			return nil, nil, err
		}
		return buf[:n], addr, nil
	}
}

func (t *UDPTransport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

func (t *UDPTransport) Close() error {
	return t.conn.Close()
}

// DefaultBufferSize is the MTU-sized default for send/receive buffers and
// the receive predictor, matching the external interfaces table's
// defaults for send_buffer_size / receive_buffer_size.
const DefaultBufferSize = 1500
