package types

import (
	"errors"
	"testing"
)

func testState() *State {
	s := NewState("test", 3)
	s.Write8("a", 0x12)
	s.Write16("pc", 0xBEEF)
	s.Write32("cycles", 0xDEADBEEF)
	s.Write64("total", 0x0123456789ABCDEF)
	s.WriteBool("halted", true)
	return s
}

func TestState_ReadInOrder(t *testing.T) {
	s := testState()

	if v := s.Read8("a"); v != 0x12 {
		t.Errorf("Read8: expected 0x12, got 0x%02X", v)
	}
	if v := s.Read16("pc"); v != 0xBEEF {
		t.Errorf("Read16: expected 0xBEEF, got 0x%04X", v)
	}
	if v := s.Read32("cycles"); v != 0xDEADBEEF {
		t.Errorf("Read32: expected 0xDEADBEEF, got 0x%08X", v)
	}
	if v := s.Read64("total"); v != 0x0123456789ABCDEF {
		t.Errorf("Read64: expected 0x0123456789ABCDEF, got 0x%016X", v)
	}
	if !s.ReadBool("halted") {
		t.Errorf("ReadBool: expected true")
	}
	if err := s.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Read8("extra")
	if !errors.Is(s.Err(), ErrStateTruncated) {
		t.Errorf("expected ErrStateTruncated reading past the end, got %v", s.Err())
	}
}

func TestState_FieldMismatch(t *testing.T) {
	s := testState()
	s.Read8("a")
	if v := s.Read8("pc"); v != 0 {
		t.Errorf("expected zero on a kind mismatch, got 0x%02X", v)
	}
	if !errors.Is(s.Err(), ErrStateField) {
		t.Fatalf("expected ErrStateField, got %v", s.Err())
	}

	// the error is latched
	if v := s.Read32("cycles"); v != 0 {
		t.Errorf("expected zero after a latched error, got 0x%08X", v)
	}

	s.ResetPosition()
	if s.Err() != nil {
		t.Errorf("expected ResetPosition to clear the error")
	}
	if v := s.Read8("a"); v != 0x12 {
		t.Errorf("expected to re-read a after ResetPosition, got 0x%02X", v)
	}
}

func TestState_Encoding(t *testing.T) {
	s := testState()
	decoded, err := StateFromBytes(s.Bytes())
	if err != nil {
		t.Fatalf("StateFromBytes: %v", err)
	}
	if decoded.Arch != "test" || decoded.Version != 3 {
		t.Errorf("expected test v3, got %s v%d", decoded.Arch, decoded.Version)
	}
	if decoded.Len() != s.Len() {
		t.Fatalf("expected %d fields, got %d", s.Len(), decoded.Len())
	}
	for i, name := range s.Names() {
		if decoded.Names()[i] != name {
			t.Errorf("field %d: expected %q, got %q", i, name, decoded.Names()[i])
		}
	}
	if decoded.Read8("a") != 0x12 || decoded.Read16("pc") != 0xBEEF || decoded.Read32("cycles") != 0xDEADBEEF ||
		decoded.Read64("total") != 0x0123456789ABCDEF || !decoded.ReadBool("halted") {
		t.Errorf("decoded values differ from the encoded state")
	}
	if err := decoded.Expect("test", 3); err != nil {
		t.Errorf("Expect: %v", err)
	}
	if err := decoded.Expect("test", 4); !errors.Is(err, ErrStateVersion) {
		t.Errorf("expected ErrStateVersion, got %v", err)
	}
}

func TestState_Corrupt(t *testing.T) {
	raw := testState().Bytes()

	flipped := append([]byte(nil), raw...)
	flipped[10] ^= 0xFF
	if _, err := StateFromBytes(flipped); !errors.Is(err, ErrStateChecksum) {
		t.Errorf("expected ErrStateChecksum, got %v", err)
	}

	if _, err := StateFromBytes(raw[:8]); !errors.Is(err, ErrStateTruncated) {
		t.Errorf("expected ErrStateTruncated, got %v", err)
	}

	notState := append([]byte(nil), raw...)
	notState[0] = 'X'
	if _, err := StateFromBytes(notState); !errors.Is(err, ErrStateMagic) {
		t.Errorf("expected ErrStateMagic, got %v", err)
	}
}
