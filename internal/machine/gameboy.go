package machine

import (
	"fmt"
	"strings"

	"github.com/thelolagemann/chipcore/internal/cpu"
	"github.com/thelolagemann/chipcore/internal/cpu/sm83"
	"github.com/thelolagemann/chipcore/internal/interrupts"
	"github.com/thelolagemann/chipcore/internal/scheduler"
	"github.com/thelolagemann/chipcore/internal/types"
	"github.com/thelolagemann/chipcore/pkg/bits"
	"github.com/thelolagemann/chipcore/pkg/log"
)

const (
	// FrameCycles is the length of a frame, in cycles at normal speed.
	FrameCycles = 70224
	// serialTransferCycles is the length of an internally clocked
	// transfer: 8 bits at 8192 Hz.
	serialTransferCycles = 8 * 512
	// romEnd is the first address past the cartridge ROM.
	romEnd = 0x8000
	// stateVersion is the layout version of the machine fields.
	stateVersion = 1
)

// GameBoy is a Game Boy reduced to what CPU test ROMs need: a flat
// 64 KiB memory with the ROM mapped read-only at 0x0000, the
// interrupt controller, a VBlank interrupt every frame and the
// serial port, whose output is captured.
type GameBoy struct {
	model types.Model
	core  cpu.Core
	sm83  *sm83.CPU
	cgb   *sm83.CGB

	mem   [0x10000]uint8
	irq   *interrupts.Service
	sched *scheduler.Scheduler

	serial strings.Builder
	frames uint64

	log log.Logger
}

var _ Machine = (*GameBoy)(nil)

// NewGameBoy returns a started Game Boy for model running rom. A
// CGB model gets the double speed capable core.
func NewGameBoy(model types.Model, rom []byte, opts ...Opt) (*GameBoy, error) {
	cfg := newConfig(opts)
	if len(rom) > romEnd {
		return nil, fmt.Errorf("machine: ROM of %d bytes does not fit the %d bytes mapped without a cartridge", len(rom), romEnd)
	}

	g := &GameBoy{
		model: model,
		irq:   interrupts.NewService(),
		sched: scheduler.NewScheduler(),
		log:   cfg.log,
	}
	copy(g.mem[:], rom)

	cpuOpts := []sm83.Opt{
		sm83.WithMemory(g.read, g.write),
		sm83.WithTracer(cfg.tracer),
		sm83.WithLogger(cfg.log),
	}
	if model.Arch() == types.ArchCGB {
		g.cgb = sm83.NewCGB(cpuOpts...)
		g.core, g.sm83 = g.cgb, g.cgb.CPU
	} else {
		g.sm83 = sm83.New(cpuOpts...)
		g.core = g.sm83
	}
	if err := g.core.Startup(); err != nil {
		return nil, err
	}

	g.sched.RegisterEvent(scheduler.VBlank, g.vblank)
	g.sched.RegisterEvent(scheduler.SerialTransfer, g.serialTransfer)
	g.Reset(cfg.bootROM)

	g.log.Infof("machine: %s, %d bytes of ROM", model, len(rom))
	return g, nil
}

// Reset resets the core and the devices. Without bootROM the
// registers are seeded as the boot ROM of the model leaves them.
func (g *GameBoy) Reset(bootROM bool) {
	g.core.Reset()
	if !bootROM {
		g.sm83.SkipBoot(g.model)
	}
	for i := romEnd; i < len(g.mem); i++ {
		g.mem[i] = 0
	}
	g.irq.Reset()
	g.sched.Reset()
	g.sched.ScheduleEvent(scheduler.VBlank, FrameCycles)
	g.serial.Reset()
	g.frames = 0
}

func (g *GameBoy) read(address uint16) uint8 {
	if v, ok := g.irq.Read(address); ok {
		return v
	}
	if address == types.SC {
		return g.mem[address] | 0x7E
	}
	return g.mem[address]
}

func (g *GameBoy) write(address uint16, value uint8) {
	if address < romEnd {
		return
	}
	if g.irq.Write(address, value) {
		return
	}
	g.mem[address] = value

	// a transfer with the internal clock completes after 8 bits
	if address == types.SC && value&(bits.Bit7|bits.Bit0) == bits.Bit7|bits.Bit0 {
		g.serial.WriteByte(g.mem[types.SB])
		g.sched.ScheduleEvent(scheduler.SerialTransfer, serialTransferCycles)
	}
}

func (g *GameBoy) vblank() {
	g.frames++
	g.irq.Request(interrupts.VBlank)
	g.sched.ScheduleEvent(scheduler.VBlank, FrameCycles)
}

// serialTransfer completes a transfer with nothing connected: the
// bits shifted in are all 1.
func (g *GameBoy) serialTransfer() {
	g.mem[types.SB] = 0xFF
	g.mem[types.SC] = bits.Reset(g.mem[types.SC], 7)
	g.irq.Request(interrupts.Serial)
}

// Step executes one Step of the core. When the core waits for an
// interrupt that nothing is about to request, the scheduler skips to
// its next event. In double speed the devices see half the cycles.
func (g *GameBoy) Step() int {
	if g.core.Halted() && !g.irq.HasInterrupts() {
		return int(g.sched.Skip())
	}

	cycles := g.core.Step()
	if g.cgb != nil && g.cgb.DoubleSpeed() {
		g.sched.Tick(uint64(cycles / 2))
	} else {
		g.sched.Tick(uint64(cycles))
	}
	return cycles
}

// Core implements the Machine interface.
func (g *GameBoy) Core() cpu.Core { return g.core }

// Output returns the bytes sent over the serial port.
func (g *GameBoy) Output() string { return g.serial.String() }

// Done reports whether the CPU locked up on an illegal opcode.
func (g *GameBoy) Done() bool { return g.sm83.Locked() }

// Frames returns the number of frames since the last reset.
func (g *GameBoy) Frames() uint64 { return g.frames }

// Interrupts returns the interrupt controller.
func (g *GameBoy) Interrupts() *interrupts.Service { return g.irq }

// Save implements the types.Stater interface. The core fields are
// followed by the interrupt controller, the scheduler and RAM.
func (g *GameBoy) Save(s *types.State) {
	g.core.Save(s)
	g.irq.Save(s)
	g.sched.Save(s)
	s.Write16("Machine", stateVersion)
	s.Write64("Frames", g.frames)
	saveMemory(s, "RAM", g.mem[romEnd:])
}

// Load implements the types.Stater interface.
func (g *GameBoy) Load(s *types.State) error {
	if err := g.core.Load(s); err != nil {
		return err
	}
	if err := g.irq.Load(s); err != nil {
		return fmt.Errorf("machine: load: %w", err)
	}
	if err := g.sched.Load(s); err != nil {
		return fmt.Errorf("machine: load: %w", err)
	}
	if version := s.Read16("Machine"); s.Err() == nil && version != stateVersion {
		return fmt.Errorf("machine: load: %w: machine version %d", types.ErrStateVersion, version)
	}
	g.frames = s.Read64("Frames")
	loadMemory(s, "RAM", g.mem[romEnd:])
	if err := s.Err(); err != nil {
		return fmt.Errorf("machine: load: %w", err)
	}
	g.log.Infof("machine: loaded %s state", s.Arch)
	return nil
}
