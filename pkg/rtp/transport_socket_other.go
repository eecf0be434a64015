//go:build !linux

package rtp

// setSockOptBuffers is a no-op outside Linux; net.UDPConn's portable
// SetReadBuffer/SetWriteBuffer (used by UDPTransport directly) covers the
// other platforms the teacher's build tags enumerated.
func setSockOptBuffers(fd, recvBufSize, sendBufSize int) error {
	return nil
}
