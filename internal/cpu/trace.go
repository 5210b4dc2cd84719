package cpu

import (
	"fmt"
	"strings"
)

// Trace describes one executed Step. Opcodes holds the prefix and
// opcode bytes that were fetched, not the operands.
type Trace struct {
	Arch      string
	PC        uint16
	Opcodes   [4]uint8
	Length    uint8
	Name      string
	Cycles    int
	Registers string
	// Interrupt is set when the Step serviced an interrupt, and
	// holds the vector that was taken.
	Interrupt bool
	Vector    uint16
}

// Opcode returns the final opcode byte of the traced instruction.
func (t Trace) Opcode() uint8 {
	if t.Length == 0 {
		return 0
	}
	return t.Opcodes[t.Length-1]
}

func (t Trace) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %04X ", t.Arch, t.PC)
	for i := uint8(0); i < 4; i++ {
		if i < t.Length {
			fmt.Fprintf(&b, "%02X ", t.Opcodes[i])
		} else {
			b.WriteString("   ")
		}
	}
	fmt.Fprintf(&b, "%-16s %3d  %s", t.Name, t.Cycles, t.Registers)
	if t.Interrupt {
		fmt.Fprintf(&b, "  -> INT %04X", t.Vector)
	}
	return b.String()
}

// Tracer receives a Trace for every Step of a core it is installed
// on. Tracers run synchronously on the Step call stack and must not
// call back into the core.
type Tracer interface {
	Trace(t Trace)
}

// TracerFunc adapts a function to a Tracer.
type TracerFunc func(t Trace)

func (f TracerFunc) Trace(t Trace) { f(t) }
