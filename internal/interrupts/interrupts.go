// Package interrupts models the Game Boy interrupt controller: the
// interrupt flag (IF) and interrupt enable (IE) registers, and the
// fixed priority and vectors of its five sources.
package interrupts

import (
	"fmt"

	"github.com/thelolagemann/chipcore/internal/types"
	"github.com/thelolagemann/chipcore/pkg/bits"
)

// Source is an interrupt source, numbered by its bit in IF and IE.
// Lower numbers have higher priority.
type Source uint8

const (
	// VBlank is requested every time the video chip enters its
	// vertical blanking period.
	VBlank Source = iota
	// LCD is requested by the LCD STAT register, when certain
	// conditions are met.
	LCD
	// Timer is requested when the timer overflows.
	Timer
	// Serial is requested when a serial transfer is completed.
	Serial
	// Joypad is requested when any of the joypad lines go from
	// high to low.
	Joypad

	// Sources is the number of interrupt sources.
	Sources = 5
)

// Mask covers the bits of IF and IE that hold a source.
const Mask uint8 = 1<<Sources - 1

var sourceNames = [Sources]string{"VBlank", "LCD", "Timer", "Serial", "Joypad"}

func (s Source) String() string {
	if s >= Sources {
		return fmt.Sprintf("Source(%d)", uint8(s))
	}
	return sourceNames[s]
}

// Valid reports whether s is one of the five sources.
func (s Source) Valid() bool {
	return s < Sources
}

// Flag returns the bit of s in IF and IE.
func (s Source) Flag() uint8 {
	return 1 << s
}

// Vector returns the address the CPU jumps to when servicing s.
func (s Source) Vector() uint16 {
	return 0x0040 + uint16(s)*8
}

// Highest returns the highest priority source set in pending,
// and false when none is.
func Highest(pending uint8) (Source, bool) {
	for i := Source(0); i < Sources; i++ {
		if bits.Test(pending, uint8(i)) {
			return i, true
		}
	}
	return 0, false
}

// Service is the interrupt controller of a Game Boy machine. The
// machine maps it onto the memory bus at types.IF and types.IE, and
// the CPU reaches it only through those addresses.
//
// When an interrupt is requested, the corresponding bit in the Flag
// register is set. When an interrupt is enabled, the corresponding
// bit in the Enable register is set. When an interrupt is requested
// and enabled, and the CPU's IME is set, the CPU will jump to the
// interrupt vector, and the corresponding bit in the Flag register
// will be cleared.
type Service struct {
	Flag   uint8 // interrupt Flag (types.IF)
	Enable uint8 // interrupt Enable (types.IE)
}

// NewService returns a new Service.
func NewService() *Service {
	return &Service{}
}

// Reset implements the types.Resettable interface.
func (s *Service) Reset() {
	s.Flag, s.Enable = 0, 0
}

// Read returns the bus view of the register at address, and false
// when address is not one of its registers.
func (s *Service) Read(address uint16) (uint8, bool) {
	switch types.HardwareAddress(address) {
	case types.IF:
		return s.Flag | ^Mask, true // the upper 3 bits are always set
	case types.IE:
		return s.Enable, true
	}
	return 0, false
}

// Write stores value in the register at address, and reports
// whether address is one of its registers.
func (s *Service) Write(address uint16, value uint8) bool {
	switch types.HardwareAddress(address) {
	case types.IF:
		s.Flag = value & Mask
	case types.IE:
		s.Enable = value
	default:
		return false
	}
	return true
}

// HasInterrupts returns true if there are any interrupts
// that are requested and enabled.
func (s *Service) HasInterrupts() bool {
	return s.Enable&s.Flag&Mask != 0
}

// Request requests the specified interrupt, by setting the
// corresponding bit in the Flag register.
func (s *Service) Request(source Source) error {
	if !source.Valid() {
		return fmt.Errorf("interrupts: request %s: unknown source", source)
	}
	s.Flag |= source.Flag()
	return nil
}

var _ types.Stater = (*Service)(nil)

// Load implements the types.Stater interface.
func (s *Service) Load(st *types.State) error {
	s.Flag = st.Read8("IF")
	s.Enable = st.Read8("IE")
	return st.Err()
}

// Save implements the types.Stater interface.
func (s *Service) Save(st *types.State) {
	st.Write8("IF", s.Flag)
	st.Write8("IE", s.Enable)
}
