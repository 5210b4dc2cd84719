package z80

import (
	"fmt"

	"github.com/thelolagemann/chipcore/internal/types"
)

var _ types.Stater = (*CPU)(nil)

// Save implements the types.Stater interface.
func (c *CPU) Save(s *types.State) {
	s.Arch, s.Version = string(types.ArchZ80), stateVersion

	s.Write16("AF", c.AF.Uint16())
	s.Write16("BC", c.BC.Uint16())
	s.Write16("DE", c.DE.Uint16())
	s.Write16("HL", c.HL.Uint16())
	s.Write16("AF'", uint16(c.shadow.A)<<8|uint16(c.shadow.F))
	s.Write16("BC'", uint16(c.shadow.B)<<8|uint16(c.shadow.C))
	s.Write16("DE'", uint16(c.shadow.D)<<8|uint16(c.shadow.E))
	s.Write16("HL'", uint16(c.shadow.H)<<8|uint16(c.shadow.L))
	s.Write16("IX", c.IX.Uint16())
	s.Write16("IY", c.IY.Uint16())
	s.Write8("I", c.I)
	s.Write8("R", c.R)
	s.Write16("PC", c.pc)
	s.Write16("SP", c.sp)
	s.Write16("WZ", c.wz)

	s.WriteBool("IFF1", c.iff1)
	s.WriteBool("IFF2", c.iff2)
	s.Write8("IM", c.im)
	s.WriteBool("EIPending", c.eiPending)
	s.WriteBool("Halted", c.halted)
	s.WriteBool("PrefixHeld", c.prefixHeld)
	s.WriteBool("IRQLine", c.irqLine)
	s.WriteBool("NMILine", c.nmiLine)
	s.WriteBool("NMIPending", c.nmiPending)
	s.Write8("DataBus", c.dataBus)
	s.Write16("IndexAddr", c.indexAddr)
	s.Write32("Cycles", uint32(c.cycles.Total()))
}

// Load implements the types.Stater interface. The CPU is left
// untouched when s cannot be loaded.
func (c *CPU) Load(s *types.State) error {
	if err := s.Expect(string(types.ArchZ80), stateVersion); err != nil {
		return fmt.Errorf("z80: load: %w", err)
	}

	af, bc, de, hl := s.Read16("AF"), s.Read16("BC"), s.Read16("DE"), s.Read16("HL")
	af2, bc2, de2, hl2 := s.Read16("AF'"), s.Read16("BC'"), s.Read16("DE'"), s.Read16("HL'")
	ix, iy := s.Read16("IX"), s.Read16("IY")
	i, r := s.Read8("I"), s.Read8("R")
	pc, sp, wz := s.Read16("PC"), s.Read16("SP"), s.Read16("WZ")

	iff1, iff2 := s.ReadBool("IFF1"), s.ReadBool("IFF2")
	im := s.Read8("IM")
	eiPending := s.ReadBool("EIPending")
	halted := s.ReadBool("Halted")
	prefixHeld := s.ReadBool("PrefixHeld")
	irqLine, nmiLine, nmiPending := s.ReadBool("IRQLine"), s.ReadBool("NMILine"), s.ReadBool("NMIPending")
	dataBus := s.Read8("DataBus")
	indexAddr := s.Read16("IndexAddr")
	cycles := s.Read32("Cycles")

	if err := s.Err(); err != nil {
		return fmt.Errorf("z80: load: %w", err)
	}
	if im > 2 {
		return fmt.Errorf("z80: load: %w: interrupt mode %d", types.ErrStateField, im)
	}

	c.AF.SetUint16(af)
	c.BC.SetUint16(bc)
	c.DE.SetUint16(de)
	c.HL.SetUint16(hl)
	c.shadow = shadowRegisters{
		A: uint8(af2 >> 8), F: uint8(af2),
		B: uint8(bc2 >> 8), C: uint8(bc2),
		D: uint8(de2 >> 8), E: uint8(de2),
		H: uint8(hl2 >> 8), L: uint8(hl2),
	}
	c.IX.SetUint16(ix)
	c.IY.SetUint16(iy)
	c.I, c.R = i, r
	c.pc, c.sp, c.wz = pc, sp, wz

	c.iff1, c.iff2, c.im = iff1, iff2, im
	c.eiPending, c.halted, c.prefixHeld = eiPending, halted, prefixHeld
	c.irqLine, c.nmiLine, c.nmiPending = irqLine, nmiLine, nmiPending
	c.dataBus = dataBus
	c.indexAddr = indexAddr
	c.cycles.Reset()
	c.cycles.Add(int(cycles))
	return nil
}
