package types

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash"
)

var (
	// ErrStateMagic is returned when decoding data that is not a State.
	ErrStateMagic = errors.New("types: data is not a state")
	// ErrStateChecksum is returned when the checksum trailer does not
	// match the encoded fields.
	ErrStateChecksum = errors.New("types: state checksum mismatch")
	// ErrStateTruncated is returned when the encoded State ends early,
	// or when more fields are read than were written.
	ErrStateTruncated = errors.New("types: state truncated")
	// ErrStateField is returned when a field is read under a different
	// name or kind than it was written with.
	ErrStateField = errors.New("types: unexpected state field")
	// ErrStateVersion is returned when a State was written by a
	// different layout version than the reader expects.
	ErrStateVersion = errors.New("types: unsupported state version")
)

// stateMagic prefixes every encoded State.
var stateMagic = [4]byte{'C', 'C', 'S', 'T'}

// Resettable is an interface that allows an object to be reset.
type Resettable interface {
	Reset() // Reset the state of the object
}

// Stater is an interface that allows an object to be saved
// and loaded from a state.
type Stater interface {
	Load(*State) error // Load the state of the object
	Save(*State)       // Save the state of the object
}

type fieldKind uint8

const (
	kindUint8 fieldKind = iota + 1
	kindUint16
	kindUint32
	kindUint64
	kindBool
)

func (k fieldKind) String() string {
	switch k {
	case kindUint8:
		return "uint8"
	case kindUint16:
		return "uint16"
	case kindUint32:
		return "uint32"
	case kindUint64:
		return "uint64"
	case kindBool:
		return "bool"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k fieldKind) size() int {
	switch k {
	case kindUint16:
		return 2
	case kindUint32:
		return 4
	case kindUint64:
		return 8
	}
	return 1
}

type field struct {
	name  string
	kind  fieldKind
	value uint64
}

// State is an ordered list of named fields describing the internal
// state of a component, used to save and load states between runs.
//
// Fields must be read back in exactly the order they were written,
// under the same name and width; the first mismatch is latched and
// reported by Err, and every subsequent read returns zero.
type State struct {
	// Arch names the component that wrote the State.
	Arch string
	// Version is the layout version of the component's fields.
	Version uint16

	fields       []field
	readPosition int
	err          error
}

// NewState creates a new, empty state for the given component
// and layout version.
func NewState(arch string, version uint16) *State {
	return &State{
		Arch:    arch,
		Version: version,
		fields:  make([]field, 0, 32),
	}
}

// ResetPosition resets the read position, allowing the state
// to be read from the beginning.
func (s *State) ResetPosition() {
	s.readPosition = 0
	s.err = nil
}

// Len returns the number of fields in the state.
func (s *State) Len() int {
	return len(s.fields)
}

// Names returns the field names in the order they were written.
func (s *State) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.name
	}
	return names
}

// Err returns the first error encountered while reading.
func (s *State) Err() error {
	return s.err
}

// Expect checks that the state was written by the given
// component at the given layout version.
func (s *State) Expect(arch string, version uint16) error {
	if s.Arch != arch {
		return fmt.Errorf("%w: state written by %q, expected %q", ErrStateField, s.Arch, arch)
	}
	if s.Version != version {
		return fmt.Errorf("%w: %s state version %d, expected %d", ErrStateVersion, arch, s.Version, version)
	}
	return nil
}

func (s *State) write(name string, kind fieldKind, value uint64) {
	s.fields = append(s.fields, field{name: name, kind: kind, value: value})
}

func (s *State) Write8(name string, value uint8) {
	s.write(name, kindUint8, uint64(value))
}

func (s *State) Write16(name string, value uint16) {
	s.write(name, kindUint16, uint64(value))
}

func (s *State) Write32(name string, value uint32) {
	s.write(name, kindUint32, uint64(value))
}

func (s *State) Write64(name string, value uint64) {
	s.write(name, kindUint64, value)
}

func (s *State) WriteBool(name string, value bool) {
	var v uint64
	if value {
		v = 1
	}
	s.write(name, kindBool, v)
}

func (s *State) read(name string, kind fieldKind) uint64 {
	if s.err != nil {
		return 0
	}
	if s.readPosition >= len(s.fields) {
		s.err = fmt.Errorf("%w: reading %q past %d fields", ErrStateTruncated, name, len(s.fields))
		return 0
	}
	f := s.fields[s.readPosition]
	if f.name != name || f.kind != kind {
		s.err = fmt.Errorf("%w: field %d is %s %q, expected %s %q", ErrStateField, s.readPosition, f.kind, f.name, kind, name)
		return 0
	}
	s.readPosition++
	return f.value
}

func (s *State) Read8(name string) uint8 {
	return uint8(s.read(name, kindUint8))
}

func (s *State) Read16(name string) uint16 {
	return uint16(s.read(name, kindUint16))
}

func (s *State) Read32(name string) uint32 {
	return uint32(s.read(name, kindUint32))
}

func (s *State) Read64(name string) uint64 {
	return s.read(name, kindUint64)
}

func (s *State) ReadBool(name string) bool {
	return s.read(name, kindBool) != 0
}

// Bytes encodes the state. The layout is:
//
//	magic "CCST" | version (u16) | arch length (u8) | arch
//	field count (u16) | fields... | xxhash64 of everything before (u64)
//
// with each field encoded as name length (u8) | name | kind (u8) |
// value (little endian, 1, 2, 4 or 8 bytes depending on the kind).
func (s *State) Bytes() []byte {
	raw := make([]byte, 0, 16+len(s.Arch)+len(s.fields)*12)
	raw = append(raw, stateMagic[:]...)
	raw = binary.LittleEndian.AppendUint16(raw, s.Version)
	raw = append(raw, uint8(len(s.Arch)))
	raw = append(raw, s.Arch...)
	raw = binary.LittleEndian.AppendUint16(raw, uint16(len(s.fields)))
	for _, f := range s.fields {
		raw = append(raw, uint8(len(f.name)))
		raw = append(raw, f.name...)
		raw = append(raw, uint8(f.kind))
		for i := 0; i < f.kind.size(); i++ {
			raw = append(raw, uint8(f.value>>(8*i)))
		}
	}
	return binary.LittleEndian.AppendUint64(raw, xxhash.Sum64(raw))
}

// StateFromBytes decodes a state previously encoded by Bytes.
func StateFromBytes(raw []byte) (*State, error) {
	if len(raw) < len(stateMagic)+2+1+2+8 {
		return nil, ErrStateTruncated
	}
	if [4]byte(raw[:4]) != stateMagic {
		return nil, ErrStateMagic
	}
	body, trailer := raw[:len(raw)-8], raw[len(raw)-8:]
	if xxhash.Sum64(body) != binary.LittleEndian.Uint64(trailer) {
		return nil, ErrStateChecksum
	}

	d := decoder{raw: body, pos: 4}
	s := &State{Version: d.uint16()}
	s.Arch = d.string()
	count := int(d.uint16())
	s.fields = make([]field, 0, count)
	for i := 0; i < count && d.err == nil; i++ {
		name := d.string()
		kind := fieldKind(d.byte())
		if kind < kindUint8 || kind > kindBool {
			return nil, fmt.Errorf("%w: field %q has unknown kind %d", ErrStateField, name, kind)
		}
		var value uint64
		for b := 0; b < kind.size(); b++ {
			value |= uint64(d.byte()) << (8 * b)
		}
		s.fields = append(s.fields, field{name: name, kind: kind, value: value})
	}
	if d.err != nil {
		return nil, d.err
	}
	return s, nil
}

// SaveToFile writes the encoded state to the given file.
func (s *State) SaveToFile(filename string) error {
	return os.WriteFile(filename, s.Bytes(), 0644)
}

// decoder reads the primitive values of an encoded State,
// latching ErrStateTruncated once the input runs out.
type decoder struct {
	raw []byte
	pos int
	err error
}

func (d *decoder) byte() uint8 {
	if d.pos >= len(d.raw) {
		d.err = ErrStateTruncated
		return 0
	}
	b := d.raw[d.pos]
	d.pos++
	return b
}

func (d *decoder) uint16() uint16 {
	return uint16(d.byte()) | uint16(d.byte())<<8
}

func (d *decoder) string() string {
	n := int(d.byte())
	if d.pos+n > len(d.raw) {
		d.err = ErrStateTruncated
		return ""
	}
	str := string(d.raw[d.pos : d.pos+n])
	d.pos += n
	return str
}
