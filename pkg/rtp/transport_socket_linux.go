//go:build linux

package rtp

import "golang.org/x/sys/unix"

// setSockOptBuffers applies the receive/send buffer hints from
// SessionConfig directly via setsockopt, bypassing the kernel's default
// doubling policy when the caller asks for a specific size.
func setSockOptBuffers(fd, recvBufSize, sendBufSize int) error {
	if recvBufSize > 0 {
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, recvBufSize); err != nil {
			return err
		}
	}
	if sendBufSize > 0 {
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, sendBufSize); err != nil {
			return err
		}
	}
	return nil
}
