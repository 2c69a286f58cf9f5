//go:build linux

package input

import (
	"time"

	"golang.org/x/sys/unix"

	perrors "github.com/odvcencio/panel/pkg/errors"
)

// FDKeys reads keystrokes from a character device or tty, using the
// kernel's input-queue count as the availability check.
type FDKeys struct {
	fd int
}

// NewFDKeys wraps an already-open descriptor. The caller keeps ownership.
func NewFDKeys(fd int) (*FDKeys, error) {
	if _, err := unix.IoctlGetInt(fd, unix.TIOCINQ); err != nil {
		return nil, perrors.Wrap(err, perrors.ErrCodeDeviceOpen, "descriptor does not support input queue queries").
			WithContext("fd", fd)
	}
	return &FDKeys{fd: fd}, nil
}

func (k *FDKeys) Buffered() (int, error) {
	n, err := unix.IoctlGetInt(k.fd, unix.TIOCINQ)
	if err != nil {
		return 0, perrors.Wrap(err, perrors.ErrCodeDeviceRead, "query key input queue")
	}
	return n, nil
}

func (k *FDKeys) Read(p []byte) (int, error) {
	n, err := unix.Read(k.fd, p)
	if n < 0 {
		n = 0
	}
	if err == unix.EAGAIN {
		return n, nil
	}
	if err != nil {
		return n, perrors.Wrap(err, perrors.ErrCodeDeviceRead, "read keys")
	}
	return n, nil
}

// HIDPointer reads boot-protocol reports from a hidraw or mouse device node.
type HIDPointer struct {
	fd   int
	path string
}

// OpenHIDPointer opens path non-blocking for report reads.
func OpenHIDPointer(path string) (*HIDPointer, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, perrors.Wrap(err, perrors.ErrCodeDeviceOpen, "open pointer device").
			WithContext("path", path).
			WithRemediation("check the device path and read permission on it")
	}
	return &HIDPointer{fd: fd, path: path}, nil
}

// ReadReport waits up to timeout for one report.
func (h *HIDPointer) ReadReport(p []byte, timeout time.Duration) (int, error) {
	ms := int(timeout / time.Millisecond)
	if timeout > 0 && ms == 0 {
		ms = 1
	}

	fds := []unix.PollFd{{Fd: int32(h.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, ms)
	if err == unix.EINTR {
		return 0, ErrTimeout
	}
	if err != nil {
		return 0, perrors.Wrap(err, perrors.ErrCodeDeviceRead, "poll pointer device").WithContext("path", h.path)
	}
	if n == 0 {
		return 0, ErrTimeout
	}

	r, err := unix.Read(h.fd, p)
	if err == unix.EAGAIN {
		return 0, ErrTimeout
	}
	if err != nil {
		return 0, perrors.Wrap(err, perrors.ErrCodeDeviceRead, "read pointer report").WithContext("path", h.path)
	}
	return r, nil
}

func (h *HIDPointer) Close() error {
	return unix.Close(h.fd)
}
