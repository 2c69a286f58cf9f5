//go:build !linux

package input

import (
	"time"

	perrors "github.com/odvcencio/panel/pkg/errors"
)

// FDKeys is only available on linux.
type FDKeys struct{}

func NewFDKeys(fd int) (*FDKeys, error) {
	return nil, perrors.New(perrors.ErrCodeDeviceOpen, "raw key descriptors are only supported on linux")
}

func (k *FDKeys) Buffered() (int, error)    { return 0, nil }
func (k *FDKeys) Read(p []byte) (int, error) { return 0, nil }

// HIDPointer is only available on linux.
type HIDPointer struct{}

func OpenHIDPointer(path string) (*HIDPointer, error) {
	return nil, perrors.New(perrors.ErrCodeDeviceOpen, "pointer devices are only supported on linux").
		WithContext("path", path)
}

func (h *HIDPointer) ReadReport(p []byte, timeout time.Duration) (int, error) {
	return 0, ErrTimeout
}

func (h *HIDPointer) Close() error { return nil }
