package sm83

import (
	"fmt"

	"github.com/thelolagemann/chipcore/internal/types"
)

var _ types.Stater = (*CPU)(nil)

// Save implements the types.Stater interface.
//
// The values are saved in the following order:
//   - AF, BC, DE, HL (uint16)
//   - SP, PC (uint16)
//   - IME (bool)
//   - Mode (uint8)
//   - Cycles (uint32)
func (c *CPU) Save(s *types.State) {
	s.Arch, s.Version = string(c.arch), stateVersion

	s.Write16("AF", c.AF.Uint16())
	s.Write16("BC", c.BC.Uint16())
	s.Write16("DE", c.DE.Uint16())
	s.Write16("HL", c.HL.Uint16())
	s.Write16("SP", c.sp)
	s.Write16("PC", c.pc)
	s.WriteBool("IME", c.ime)
	s.Write8("Mode", c.mode)
	s.Write32("Cycles", uint32(c.cycles.Total()))
}

// Load implements the types.Stater interface. The CPU is left
// untouched when s cannot be loaded.
func (c *CPU) Load(s *types.State) error {
	snap, err := c.readState(s)
	if err != nil {
		return err
	}
	c.applyState(snap)
	return nil
}

// coreState holds the fields of a saved CPU until they have all been
// read and validated.
type coreState struct {
	af, bc, de, hl uint16
	sp, pc         uint16
	ime            bool
	mode           uint8
	cycles         uint32
}

func (c *CPU) readState(s *types.State) (coreState, error) {
	if err := s.Expect(string(c.arch), stateVersion); err != nil {
		return coreState{}, fmt.Errorf("%s: load: %w", c.arch, err)
	}

	snap := coreState{
		af:     s.Read16("AF") & 0xFFF0,
		bc:     s.Read16("BC"),
		de:     s.Read16("DE"),
		hl:     s.Read16("HL"),
		sp:     s.Read16("SP"),
		pc:     s.Read16("PC"),
		ime:    s.ReadBool("IME"),
		mode:   s.Read8("Mode"),
		cycles: s.Read32("Cycles"),
	}
	if err := s.Err(); err != nil {
		return coreState{}, fmt.Errorf("%s: load: %w", c.arch, err)
	}
	if snap.mode > ModeLocked {
		return coreState{}, fmt.Errorf("%s: load: %w: mode %d", c.arch, types.ErrStateField, snap.mode)
	}
	return snap, nil
}

func (c *CPU) applyState(snap coreState) {
	c.AF.SetUint16(snap.af)
	c.BC.SetUint16(snap.bc)
	c.DE.SetUint16(snap.de)
	c.HL.SetUint16(snap.hl)
	c.sp, c.pc = snap.sp, snap.pc
	c.ime = snap.ime
	c.mode = snap.mode
	c.cycles.Reset()
	c.cycles.Add(int(snap.cycles))
}
