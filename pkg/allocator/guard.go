package allocator

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

var bin = binary.LittleEndian

var ErrGuardCorrupted = errors.New("guard bytes corrupted")

const (
	guardSize = 8
	guardMask = uint64(0x3C5AA5C3E1789F0D)
)

// guardValue derives the sentinel from the allocation size, so a guard copied
// from another allocation does not pass.
func guardValue(size int) uint64 {
	return uint64(size) ^ guardMask
}

type CorruptionError struct {
	Size     int
	Side     string
	Expected uint64
	Actual   uint64
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("%s guard of %d-byte buffer: expected %#016x, found %#016x",
		e.Side, e.Size, e.Expected, e.Actual)
}

func (e *CorruptionError) Unwrap() error {
	return ErrGuardCorrupted
}

func writeGuards(mem []byte, size int) {
	v := guardValue(size)
	bin.PutUint64(mem[:guardSize], v)
	bin.PutUint64(mem[guardSize+size:], v)
}

func checkGuards(mem []byte, size int) error {
	expected := guardValue(size)
	head := bin.Uint64(mem[:guardSize])
	tail := bin.Uint64(mem[guardSize+size:])

	if head != expected {
		return &CorruptionError{Size: size, Side: "head", Expected: expected, Actual: head}
	}
	if tail != expected {
		return &CorruptionError{Size: size, Side: "tail", Expected: expected, Actual: tail}
	}
	return nil
}
