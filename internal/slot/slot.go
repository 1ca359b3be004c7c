// internal/slot/slot.go
package slot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Slot identifies one logical byte stored in flash.
// The underlying value is the one-byte wire tag (virtual address)
// written into the high byte of every record.
type Slot uint8

// ErrUnknownSlot is returned when a byte or name maps to no defined slot.
var ErrUnknownSlot = errors.New("slot: unknown slot")

// ---- WIRE TAGS ----

// Configuration holds the device configuration byte.
const Configuration Slot = 0xAF

// CustomCount is the number of user slots, numbered 1..CustomCount.
const CustomCount = 4

// Custom returns the user slot n (1..4).
func Custom(n int) (Slot, error) {
	if n < 1 || n > CustomCount {
		return 0, fmt.Errorf("%w: custom(%d)", ErrUnknownSlot, n)
	}
	return Slot(uint8(n)<<4 | 0x0F), nil
}

// MustCustom is Custom for compile-time known indices.
func MustCustom(n int) Slot {
	s, err := Custom(n)
	if err != nil {
		panic(err)
	}
	return s
}

// FromByte decodes a wire tag. It never defaults: unknown tags fail.
func FromByte(b byte) (Slot, error) {
	s := Slot(b)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: 0x%02X", ErrUnknownSlot, b)
	}
	return s, nil
}

// Byte returns the wire tag.
func (s Slot) Byte() byte { return byte(s) }

// Valid reports whether s is one of the defined slots.
func (s Slot) Valid() bool {
	if s == Configuration {
		return true
	}
	n := int(s >> 4)
	return byte(s)&0x0F == 0x0F && n >= 1 && n <= CustomCount
}

// CustomIndex returns n for Custom(n), or 0 for any other slot.
func (s Slot) CustomIndex() int {
	if s == Configuration || !s.Valid() {
		return 0
	}
	return int(s >> 4)
}

func (s Slot) String() string {
	switch {
	case s == Configuration:
		return "configuration"
	case s.Valid():
		return "custom" + strconv.Itoa(s.CustomIndex())
	default:
		return fmt.Sprintf("invalid(0x%02X)", byte(s))
	}
}

// All returns every defined slot in a stable order.
func All() []Slot {
	out := make([]Slot, 0, 1+CustomCount)
	out = append(out, Configuration)
	for n := 1; n <= CustomCount; n++ {
		out = append(out, MustCustom(n))
	}
	return out
}

// Parse accepts a slot name ("configuration", "config", "custom1".."custom4")
// or a wire tag in decimal or 0x-prefixed hex.
func Parse(name string) (Slot, error) {
	n := strings.ToLower(strings.TrimSpace(name))

	switch n {
	case "configuration", "config":
		return Configuration, nil
	}

	if rest, ok := strings.CutPrefix(n, "custom"); ok {
		idx, err := strconv.Atoi(rest)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrUnknownSlot, name)
		}
		return Custom(idx)
	}

	v, err := strconv.ParseUint(n, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSlot, name)
	}
	return FromByte(byte(v))
}
