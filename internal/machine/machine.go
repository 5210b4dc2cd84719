// Package machine provides the minimal machines the interpreter
// cores are run in: a flat memory Game Boy that captures its serial
// output, and a CP/M environment for Z80 programs.
package machine

import (
	"context"
	"fmt"
	"strings"

	"github.com/thelolagemann/chipcore/internal/cpu"
	"github.com/thelolagemann/chipcore/internal/types"
	"github.com/thelolagemann/chipcore/pkg/log"
)

// Machine is a CPU core together with the memory and devices needed
// to run a test program.
type Machine interface {
	types.Stater

	// Core returns the CPU core of the machine.
	Core() cpu.Core
	// Step executes one Step of the core and advances the devices,
	// returning the number of cycles that elapsed.
	Step() int
	// Output returns the text the program printed so far.
	Output() string
	// Done reports whether the program has finished.
	Done() bool
}

// Opt configures a Machine.
type Opt func(c *config)

type config struct {
	tracer   cpu.Tracer
	log      log.Logger
	frameIRQ uint64
	bootROM  bool
}

// WithTracer installs a tracer on the core.
func WithTracer(t cpu.Tracer) Opt {
	return func(c *config) {
		c.tracer = t
	}
}

// WithLogger sets the logger used by the machine and its core.
func WithLogger(l log.Logger) Opt {
	return func(c *config) {
		c.log = l
	}
}

// WithFrameIRQ asserts the maskable interrupt line of a Z80 machine
// every period cycles. It has no effect on a Game Boy.
func WithFrameIRQ(period uint64) Opt {
	return func(c *config) {
		c.frameIRQ = period
	}
}

// WithBootROM starts a Game Boy at 0x0000 with cleared registers,
// instead of at 0x0100 with the registers left by the boot ROM. The
// program is then expected to contain its own boot code.
func WithBootROM() Opt {
	return func(c *config) {
		c.bootROM = true
	}
}

// New returns a started machine for model, running program.
func New(model types.Model, program []byte, opts ...Opt) (Machine, error) {
	if model.Arch() == types.ArchZ80 {
		return NewCPM(program, opts...)
	}
	return NewGameBoy(model, program, opts...)
}

func newConfig(opts []Opt) *config {
	c := &config{log: log.NewNullLogger()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StopReason tells why Run returned.
type StopReason int

const (
	// Finished is returned when the machine reported Done.
	Finished StopReason = iota
	// Matched is returned when the output contains the awaited text.
	Matched
	// StepLimit is returned when the step limit was reached.
	StepLimit
	// Cancelled is returned when the context was cancelled.
	Cancelled
)

var stopReasons = [...]string{"finished", "matched", "step limit", "cancelled"}

func (r StopReason) String() string {
	if int(r) < len(stopReasons) {
		return stopReasons[r]
	}
	return fmt.Sprintf("StopReason(%d)", int(r))
}

// Result describes a Run.
type Result struct {
	Reason StopReason
	Steps  uint64
	Cycles uint64
	Output string
}

// Passed reports whether the output announces a passing test.
func (r Result) Passed() bool {
	return strings.Contains(r.Output, "Passed") && !r.Failed()
}

// Failed reports whether the output announces a failing test.
func (r Result) Failed() bool {
	return strings.Contains(r.Output, "Failed") || strings.Contains(r.Output, "ERROR")
}

// contextCheckSteps is the number of steps between checks of the
// context.
const contextCheckSteps = 1 << 14

// Run steps m until it is done, until its output contains until
// (when not empty), until limit steps were executed (when not 0), or
// until ctx is cancelled.
func Run(ctx context.Context, m Machine, limit uint64, until string) (Result, error) {
	var r Result
	outputLen := 0
	for {
		if m.Done() {
			r.Reason = Finished
			break
		}
		if limit != 0 && r.Steps >= limit {
			r.Reason = StepLimit
			break
		}
		if r.Steps%contextCheckSteps == 0 {
			if err := ctx.Err(); err != nil {
				r.Reason = Cancelled
				r.Output = m.Output()
				return r, err
			}
		}

		r.Cycles += uint64(m.Step())
		r.Steps++

		if until != "" {
			if output := m.Output(); len(output) != outputLen {
				outputLen = len(output)
				if strings.Contains(output, until) {
					r.Reason = Matched
					break
				}
			}
		}
	}
	r.Output = m.Output()
	return r, nil
}

// saveMemory writes mem as a run of 64-bit words.
func saveMemory(s *types.State, name string, mem []uint8) {
	for i := 0; i+8 <= len(mem); i += 8 {
		var word uint64
		for b := 0; b < 8; b++ {
			word |= uint64(mem[i+b]) << (8 * b)
		}
		s.Write64(name, word)
	}
}

// loadMemory reads memory written by saveMemory.
func loadMemory(s *types.State, name string, mem []uint8) {
	for i := 0; i+8 <= len(mem); i += 8 {
		word := s.Read64(name)
		for b := 0; b < 8; b++ {
			mem[i+b] = uint8(word >> (8 * b))
		}
	}
}
