package input

import (
	"errors"
	"strings"
	"time"
)

// ErrTimeout is returned by a PointerDevice when no report arrived within
// the read timeout. It is an expected condition, not a failure.
var ErrTimeout = errors.New("input: pointer read timed out")

// PointerDevice reads fixed-size reports from a relative pointer.
//
//go:generate mockgen -package=input -destination=mock_pointer_test.go github.com/odvcencio/panel/pkg/input PointerDevice
type PointerDevice interface {
	// ReadReport fills p with one raw report, waiting at most timeout.
	// It returns ErrTimeout when nothing arrived.
	ReadReport(p []byte, timeout time.Duration) (int, error)
}

// Buttons is a pointer button bitmask. Bit i is the i-th entry of
// ButtonNames.
type Buttons uint8

const (
	ButtonLeft Buttons = 1 << iota
	ButtonRight
	ButtonMiddle
)

// ButtonNames names the mask bits in order.
var ButtonNames = [...]string{"left", "right", "middle"}

// Has reports whether every button in mask is held.
func (b Buttons) Has(mask Buttons) bool {
	return mask != 0 && b&mask == mask
}

// Primary reports whether the left button is held.
func (b Buttons) Primary() bool {
	return b.Has(ButtonLeft)
}

// Names lists the held buttons in bit order.
func (b Buttons) Names() []string {
	var names []string
	for i, name := range ButtonNames {
		if b&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return names
}

func (b Buttons) String() string {
	names := b.Names()
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}

// PointerSample is one decoded relative pointer report.
type PointerSample struct {
	DX, DY  int
	Buttons Buttons
	Scroll  int
}

// Moved reports whether the sample carries motion.
func (s PointerSample) Moved() bool {
	return s.DX != 0 || s.DY != 0
}

// ReportSize is the length of a boot-protocol mouse report with a wheel byte.
const ReportSize = 4

// DecodeReport decodes a boot-protocol mouse report: buttons, then signed
// dx, dy and an optional signed wheel byte. Reports shorter than three bytes
// are rejected.
func DecodeReport(p []byte) (PointerSample, bool) {
	if len(p) < 3 {
		return PointerSample{}, false
	}
	s := PointerSample{
		Buttons: Buttons(p[0]) & (ButtonLeft | ButtonRight | ButtonMiddle),
		DX:      int(int8(p[1])),
		DY:      int(int8(p[2])),
	}
	if len(p) > 3 {
		s.Scroll = int(int8(p[3]))
	}
	return s, true
}

// EncodeReport is the inverse of DecodeReport. Deltas outside the int8
// range are saturated.
func EncodeReport(s PointerSample) []byte {
	return []byte{
		byte(s.Buttons),
		byte(saturate8(s.DX)),
		byte(saturate8(s.DY)),
		byte(saturate8(s.Scroll)),
	}
}

func saturate8(v int) int8 {
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return int8(v)
}
