package sm83

import (
	"github.com/thelolagemann/chipcore/internal/cpu"
	"github.com/thelolagemann/chipcore/pkg/log"
)

// Opt is a function that configures a CPU.
type Opt func(c *CPU)

// WithMemory sets the memory bus callbacks. IF and IE are read and
// written through them at types.IF and types.IE.
func WithMemory(read cpu.ReadFunc, write cpu.WriteFunc) Opt {
	return func(c *CPU) {
		c.bus.Read = read
		c.bus.Write = write
	}
}

// WithTracer installs a tracer receiving every Step.
func WithTracer(t cpu.Tracer) Opt {
	return func(c *CPU) {
		c.tracer = t
	}
}

// WithLogger sets the logger used by the CPU.
func WithLogger(l log.Logger) Opt {
	return func(c *CPU) {
		c.log = l
	}
}
