package sm83

import (
	"fmt"

	"github.com/thelolagemann/chipcore/internal/cpu"
	"github.com/thelolagemann/chipcore/internal/types"
	"github.com/thelolagemann/chipcore/pkg/bits"
)

// CGB is the Game Boy Color CPU: the SM83 core with the double
// speed switch performed by STOP. In CGB mode STOP never stops the
// CPU; when KEY1 has the switch armed it toggles the speed,
// otherwise it only advances PC.
type CGB struct {
	*CPU
	doubleSpeed bool
}

var _ cpu.Core = (*CGB)(nil)

// NewCGB returns a new Game Boy Color CPU configured by the given
// options.
func NewCGB(opts ...Opt) *CGB {
	g := &CGB{CPU: New(opts...)}
	g.arch = types.ArchCGB
	g.stopHook = g.speedSwitch
	return g
}

func (g *CGB) speedSwitch(c *CPU) bool {
	key := c.read(types.KEY1)
	if key&bits.Bit0 == 0 {
		return true
	}

	g.doubleSpeed = !g.doubleSpeed
	// bit 7 reports the new speed, and the armed bit is cleared
	if g.doubleSpeed {
		c.write(types.KEY1, bits.Bit7)
	} else {
		c.write(types.KEY1, 0)
	}
	c.log.Debugf("%s: speed switch, double speed=%v", c.arch, g.doubleSpeed)
	return true
}

// DoubleSpeed reports whether the CPU runs at double speed.
func (g *CGB) DoubleSpeed() bool {
	return g.doubleSpeed
}

// ClockSpeed returns the current clock speed in Hz.
func (g *CGB) ClockSpeed() int {
	if g.doubleSpeed {
		return ClockSpeed * 2
	}
	return ClockSpeed
}

// Reset restores the power-on state, in normal speed.
func (g *CGB) Reset() {
	g.CPU.Reset()
	g.doubleSpeed = false
}

// Save implements the types.Stater interface.
func (g *CGB) Save(s *types.State) {
	g.CPU.Save(s)
	s.WriteBool("DoubleSpeed", g.doubleSpeed)
}

// Load implements the types.Stater interface.
func (g *CGB) Load(s *types.State) error {
	snap, err := g.readState(s)
	if err != nil {
		return err
	}
	doubleSpeed := s.ReadBool("DoubleSpeed")
	if err := s.Err(); err != nil {
		return fmt.Errorf("%s: load: %w", g.arch, err)
	}
	g.applyState(snap)
	g.doubleSpeed = doubleSpeed
	return nil
}
