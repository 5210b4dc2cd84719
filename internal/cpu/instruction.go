package cpu

// Instruction is a single entry of an opcode table. T is the
// concrete core the operation runs against.
type Instruction[T any] struct {
	Name string
	Fn   func(T)
}

// InstructionSet is an opcode table of 256 entries indexed by the
// raw opcode byte, with a parallel table of base cycle costs.
type InstructionSet[T any] struct {
	Instructions [256]Instruction[T]
	Cycles       [256]uint8
}

// NewInstructionSet returns an InstructionSet charging the given
// base cycle costs.
func NewInstructionSet[T any](cycles [256]uint8) *InstructionSet[T] {
	return &InstructionSet[T]{Cycles: cycles}
}

// Define sets the operation executed for the given opcode.
func (s *InstructionSet[T]) Define(opcode uint8, name string, fn func(T)) {
	s.Instructions[opcode] = Instruction[T]{name, fn}
}

// Execute runs the operation for opcode and returns its base cost.
func (s *InstructionSet[T]) Execute(c T, opcode uint8) int {
	s.Instructions[opcode].Fn(c)
	return int(s.Cycles[opcode])
}

// Name returns the mnemonic of the given opcode.
func (s *InstructionSet[T]) Name(opcode uint8) string {
	return s.Instructions[opcode].Name
}

// Undefined returns every opcode that has no operation. A complete
// table returns nil.
func (s *InstructionSet[T]) Undefined() []uint8 {
	var missing []uint8
	for i, instr := range s.Instructions {
		if instr.Fn == nil {
			missing = append(missing, uint8(i))
		}
	}
	return missing
}
