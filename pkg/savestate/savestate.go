// Package savestate stores snapshots of a machine on disk, brotli
// compressed.
package savestate

import (
	"fmt"
	"os"

	"github.com/google/brotli/go/cbrotli"
	"github.com/thelolagemann/chipcore/internal/types"
)

// Quality is the brotli quality snapshots are written with.
const Quality = 9

// Encode compresses the encoded form of s.
func Encode(s *types.State) ([]byte, error) {
	return cbrotli.Encode(s.Bytes(), cbrotli.WriterOptions{
		Quality: Quality,
	})
}

// Decode decompresses and decodes data written by Encode.
func Decode(data []byte) (*types.State, error) {
	raw, err := cbrotli.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("savestate: decompress: %w", err)
	}
	return types.StateFromBytes(raw)
}

// Save writes s to filename.
func Save(filename string, s *types.State) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("savestate: %s: %w", filename, err)
	}
	return os.WriteFile(filename, data, 0644)
}

// Load reads the snapshot stored in filename.
func Load(filename string) (*types.State, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}
