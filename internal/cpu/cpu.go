// Package cpu holds the framework shared by the interpreter cores:
// the bus callback contract, the capability interface every core
// implements, opcode tables, cycle accounting, and tracing.
package cpu

import (
	"errors"
	"fmt"

	"github.com/thelolagemann/chipcore/internal/types"
)

var (
	// ErrMissingCallback is returned by Startup when a bus callback
	// required by the core was never supplied.
	ErrMissingCallback = errors.New("cpu: missing bus callback")
	// ErrUnsupported is returned when an operation is requested on a
	// channel or mode the core does not implement.
	ErrUnsupported = errors.New("cpu: unsupported capability")
)

// ReadFunc reads a byte from the memory bus.
type ReadFunc func(address uint16) uint8

// WriteFunc writes a byte to the memory bus.
type WriteFunc func(address uint16, value uint8)

// PortReadFunc reads a byte from an I/O port.
type PortReadFunc func(port uint8) uint8

// PortWriteFunc writes a byte to an I/O port.
type PortWriteFunc func(port uint8, value uint8)

// Bus holds the callbacks a core reaches the rest of the machine
// through. The core never owns memory or peripherals.
type Bus struct {
	Read  ReadFunc
	Write WriteFunc
	In    PortReadFunc
	Out   PortWriteFunc
}

// Validate returns an error naming every callback that is required
// but unset. Port callbacks are only required when ports is true.
func (b *Bus) Validate(ports bool) error {
	var errs []error
	if b.Read == nil {
		errs = append(errs, fmt.Errorf("%w: memory read", ErrMissingCallback))
	}
	if b.Write == nil {
		errs = append(errs, fmt.Errorf("%w: memory write", ErrMissingCallback))
	}
	if ports {
		if b.In == nil {
			errs = append(errs, fmt.Errorf("%w: port read", ErrMissingCallback))
		}
		if b.Out == nil {
			errs = append(errs, fmt.Errorf("%w: port write", ErrMissingCallback))
		}
	}
	return errors.Join(errs...)
}

// Core is the capability set every interpreter core provides to the
// machine that owns it.
type Core interface {
	types.Stater
	types.Resettable

	// Startup validates the core's configuration. It must be called
	// once before the first Step.
	Startup() error
	// Step executes one instruction, one halted idle tick, or one
	// interrupt service, and returns the number of cycles it took.
	Step() int

	PC() uint16
	SP() uint16
	Halted() bool

	SetPC(uint16)
	SetSP(uint16)
	SetAF(uint16)
	SetBC(uint16)
	SetDE(uint16)
	SetHL(uint16)
}

// InterruptKind selects an interrupt line.
type InterruptKind uint8

const (
	Maskable InterruptKind = iota
	NonMaskable
)

func (k InterruptKind) String() string {
	if k == NonMaskable {
		return "NMI"
	}
	return "INT"
}

// LineState is the level driven onto an interrupt line.
type LineState bool

const (
	Clear  LineState = false
	Assert LineState = true
)
