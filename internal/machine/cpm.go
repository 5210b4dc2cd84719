package machine

import (
	"fmt"
	"strings"

	"github.com/thelolagemann/chipcore/internal/cpu"
	"github.com/thelolagemann/chipcore/internal/cpu/z80"
	"github.com/thelolagemann/chipcore/internal/scheduler"
	"github.com/thelolagemann/chipcore/internal/types"
	"github.com/thelolagemann/chipcore/pkg/log"
	"github.com/thelolagemann/chipcore/pkg/utils"
)

const (
	// tpa is the address CP/M loads programs at.
	tpa = 0x0100
	// bdos is the BDOS entry point programs call.
	bdos = 0x0005
	// tpaTop is the top of the program area, reported at 0x0006.
	tpaTop = 0xF000
	// frameIRQLength is the number of cycles the frame interrupt line
	// stays asserted.
	frameIRQLength = 64
)

// BDOS functions handled by the machine.
const (
	bdosConsoleOutput = 2
	bdosPrintString   = 9
)

// CPM runs Z80 CP/M programs, such as the instruction exercisers,
// in 64 KiB of RAM. The console BDOS functions are intercepted at
// 0x0005, and a jump to the warm boot vector at 0x0000 ends the run.
type CPM struct {
	core  *z80.CPU
	mem   [0x10000]uint8
	sched *scheduler.Scheduler

	frameIRQ uint64
	console  strings.Builder

	log log.Logger
}

var _ Machine = (*CPM)(nil)

// NewCPM returns a started CP/M machine running program.
func NewCPM(program []byte, opts ...Opt) (*CPM, error) {
	cfg := newConfig(opts)
	if len(program) > tpaTop-tpa {
		return nil, fmt.Errorf("machine: program of %d bytes does not fit the TPA", len(program))
	}

	m := &CPM{
		sched:    scheduler.NewScheduler(),
		frameIRQ: cfg.frameIRQ,
		log:      cfg.log,
	}
	m.core = z80.New(
		z80.WithMemory(m.read, m.write),
		z80.WithPorts(m.in, m.out),
		z80.WithTracer(cfg.tracer),
		z80.WithLogger(cfg.log),
	)
	if err := m.core.Startup(); err != nil {
		return nil, err
	}

	m.sched.RegisterEvent(scheduler.FrameIRQ, m.raiseFrameIRQ)
	m.sched.RegisterEvent(scheduler.FrameIRQRelease, m.releaseFrameIRQ)
	m.Reset(program)

	m.log.Infof("machine: CP/M, %d bytes of program", len(program))
	return m, nil
}

// Reset clears memory, loads program at 0x0100 and resets the core
// to start it.
func (m *CPM) Reset(program []byte) {
	m.mem = [0x10000]uint8{}
	copy(m.mem[tpa:], program)

	// warm boot halts, BDOS returns immediately after the trap
	m.mem[0x0000] = 0x76
	m.mem[bdos] = 0xC9
	m.mem[0x0007], m.mem[0x0006] = utils.Uint16ToBytes(tpaTop)

	m.core.Reset()
	m.core.SetPC(tpa)
	m.core.SetSP(tpaTop)

	m.sched.Reset()
	if m.frameIRQ != 0 {
		m.sched.ScheduleEvent(scheduler.FrameIRQ, m.frameIRQ)
	}
	m.console.Reset()
}

func (m *CPM) read(address uint16) uint8         { return m.mem[address] }
func (m *CPM) write(address uint16, value uint8) { m.mem[address] = value }

// in reads an unconnected port.
func (m *CPM) in(port uint8) uint8 {
	m.log.Debugf("machine: IN %02X", port)
	return 0xFF
}

func (m *CPM) out(port uint8, value uint8) {
	m.log.Debugf("machine: OUT %02X, %02X", port, value)
}

func (m *CPM) raiseFrameIRQ() {
	m.core.SetInterruptLine(cpu.Maskable, cpu.Assert)
	m.sched.ScheduleEvent(scheduler.FrameIRQRelease, frameIRQLength)
	m.sched.ScheduleEvent(scheduler.FrameIRQ, m.frameIRQ)
}

func (m *CPM) releaseFrameIRQ() {
	m.core.SetInterruptLine(cpu.Maskable, cpu.Clear)
}

// Step runs the BDOS call when the core is about to enter it, then
// executes one Step of the core.
func (m *CPM) Step() int {
	if m.core.PC() == bdos {
		m.callBDOS()
	}

	cycles := m.core.Step()
	m.sched.Tick(uint64(cycles))
	return cycles
}

// callBDOS performs the console function selected by C.
func (m *CPM) callBDOS() {
	switch fn := m.core.C; fn {
	case bdosConsoleOutput:
		m.console.WriteByte(m.core.E)
	case bdosPrintString:
		for address := m.core.DE.Uint16(); m.mem[address] != '$'; address++ {
			m.console.WriteByte(m.mem[address])
			if address == 0xFFFF {
				break
			}
		}
	default:
		m.log.Warnf("machine: unsupported BDOS function %d", fn)
	}
}

// Core implements the Machine interface.
func (m *CPM) Core() cpu.Core { return m.core }

// Output returns the console output.
func (m *CPM) Output() string { return m.console.String() }

// Done reports whether the program jumped to the warm boot vector.
func (m *CPM) Done() bool { return m.core.PC() == 0x0000 }

// Save implements the types.Stater interface.
func (m *CPM) Save(s *types.State) {
	m.core.Save(s)
	m.sched.Save(s)
	s.Write16("Machine", stateVersion)
	saveMemory(s, "RAM", m.mem[:])
}

// Load implements the types.Stater interface.
func (m *CPM) Load(s *types.State) error {
	if err := m.core.Load(s); err != nil {
		return err
	}
	if err := m.sched.Load(s); err != nil {
		return fmt.Errorf("machine: load: %w", err)
	}
	if version := s.Read16("Machine"); s.Err() == nil && version != stateVersion {
		return fmt.Errorf("machine: load: %w: machine version %d", types.ErrStateVersion, version)
	}
	loadMemory(s, "RAM", m.mem[:])
	if err := s.Err(); err != nil {
		return fmt.Errorf("machine: load: %w", err)
	}
	m.log.Infof("machine: loaded %s state", s.Arch)
	return nil
}
