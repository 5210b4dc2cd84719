package types

import (
	"strings"
)

type Model int // The Model whose CPU is emulated.

const (
	Unset        Model = iota // Unset - Model hasn't been set - behaves as DMGABC
	SG1000                    // SG1000 - Sega SG-1000
	SC3000                    // SC3000 - Sega SC-3000
	MasterSystem              // MasterSystem - Sega Master System
	GameGear                  // GameGear - Sega Game Gear
	ColecoVision              // ColecoVision - Coleco ColecoVision
	DMG0                      // DMG0 - early Game Boy, only released in Japan
	DMGABC                    // DMGABC - Standard Game Boy
	CGB0                      // CGB0 -  early Game Boy Colour, only released in Japan
	CGBABC                    // CGBABC - Standard Game Boy Colour
	MGB                       // MGB - Pocket Game Boy
	SGB                       // SGB - Super Game Boy
	SGB2                      // SGB2 - Super Game Boy 2
	AGB                       // AGB - Game Boy Advance
)

var ModelNames = map[Model]string{
	SG1000:       "SG1000",
	SC3000:       "SC3000",
	MasterSystem: "SMS",
	GameGear:     "GG",
	ColecoVision: "COLECO",
	DMG0:         "DMG0",
	DMGABC:       "DMG",
	CGB0:         "CGB0",
	CGBABC:       "CGB",
	MGB:          "MGB",
	SGB:          "SGB",
	SGB2:         "SGB2",
	AGB:          "AGB",
	Unset:        "Unset",
}

// StringToModel converts a string to a Model. The generic
// architecture name "z80" selects the Master System.
func StringToModel(s string) Model {
	s = strings.ToUpper(s)
	if s == "Z80" {
		return MasterSystem
	}
	for m, n := range ModelNames {
		if n == s {
			return m
		}
	}

	return Unset
}

func (m Model) String() string {
	return ModelNames[m]
}

// Arch identifies the CPU core a Model runs on. It is also used
// to tag saved states.
type Arch string

const (
	ArchZ80  Arch = "z80"  // Zilog Z80 and its second sources
	ArchSM83 Arch = "sm83" // Sharp SM83, as found in the DMG
	ArchCGB  Arch = "cgb"  // SM83 with the CGB double speed switch
)

// Arch returns the CPU core used by the Model.
func (m Model) Arch() Arch {
	switch m {
	case SG1000, SC3000, MasterSystem, GameGear, ColecoVision:
		return ArchZ80
	case CGB0, CGBABC, AGB:
		return ArchCGB
	}
	return ArchSM83
}

// ModelRegisters - model specific starting CPU registers for SM83
// models started without a boot ROM, in the order A, F, B, C, D, E,
// H, L.
var ModelRegisters = map[Model][]uint8{
	Unset:  {0x01, 0xB0, 0x00, 0x13, 0x00, 0xD8, 0x01, 0x4D}, // default to DMG registers
	DMG0:   {0x01, 0x00, 0xFF, 0x13, 0x00, 0xC1, 0x84, 0x03},
	DMGABC: {0x01, 0xB0, 0x00, 0x13, 0x00, 0xD8, 0x01, 0x4D},
	CGB0:   {0x11, 0x80, 0x00, 0x00, 0x00, 0x08, 0x00, 0x7C},
	CGBABC: {0x11, 0x80, 0x00, 0x00, 0x00, 0x08, 0x00, 0x7C},
	MGB:    {0xFF, 0xB0, 0x00, 0x13, 0x00, 0xD8, 0x01, 0x4D},
	SGB:    {0x01, 0x00, 0x00, 0x14, 0x00, 0x00, 0xC0, 0x60},
	SGB2:   {0xFF, 0x00, 0x00, 0x14, 0x00, 0x00, 0xC0, 0x60},
	AGB:    {0x11, 0x00, 0x01, 0x00, 0x00, 0x08, 0x00, 0x7C},
}
