// internal/device/sim.go
package device

import (
	"encoding/binary"
	"fmt"
)

// Adapter call names recorded by Sim.
const (
	CallSetup     = "setup"
	CallTeardown  = "teardown"
	CallEnable    = "enable"
	CallDisable   = "disable"
	CallErasePage = "erase"
	CallEraseAll  = "erase_all"
	CallReset     = "reset"
)

const (
	erasedByte  = 0xFF
	cellBytes   = 2
	maxPageSize = 1 << 20
)

// Sim is RAM-backed flash. Programming only clears bits, like NOR flash,
// so an erase is the only way back to 0xFFFF.
// It also records every adapter call for inspection in tests.
type Sim struct {
	mem      []byte
	pageSize uint32

	writeEnabled bool
	calls        []string

	// Writes counts cell programming operations.
	Writes int
}

// NewSim creates pages*pageSize bytes of erased flash.
func NewSim(pages int, pageSize uint32) *Sim {
	if pages <= 0 || pageSize == 0 || pageSize > maxPageSize {
		panic(fmt.Sprintf("device sim: bad geometry pages=%d page_size=%d", pages, pageSize))
	}
	s := &Sim{
		mem:      make([]byte, uint32(pages)*pageSize),
		pageSize: pageSize,
	}
	fill(s.mem)
	return s
}

// ---- page.Memory ----

func (s *Sim) ReadU16(addr uint32) uint16 {
	s.check(addr)
	return binary.LittleEndian.Uint16(s.mem[addr:])
}

func (s *Sim) WriteU16(addr uint32, v uint16) {
	s.check(addr)
	old := binary.LittleEndian.Uint16(s.mem[addr:])
	binary.LittleEndian.PutUint16(s.mem[addr:], old&v)
	s.Writes++
}

// ---- flash.Adapter ----

func (s *Sim) Setup()    { s.calls = append(s.calls, CallSetup) }
func (s *Sim) Teardown() { s.calls = append(s.calls, CallTeardown) }

func (s *Sim) EnableWriteMode() {
	s.writeEnabled = true
	s.calls = append(s.calls, CallEnable)
}

func (s *Sim) DisableWriteMode() {
	s.writeEnabled = false
	s.calls = append(s.calls, CallDisable)
}

// ErasePage erases the page containing addr.
func (s *Sim) ErasePage(addr uint32) {
	s.calls = append(s.calls, CallErasePage)
	base := addr - addr%s.pageSize
	if int(base) >= len(s.mem) {
		return
	}
	fill(s.mem[base : base+s.pageSize])
}

func (s *Sim) EraseAll() {
	s.calls = append(s.calls, CallEraseAll)
	fill(s.mem)
}

func (s *Sim) Reset() {
	s.calls = append(s.calls, CallReset)
}

// ---- inspection ----

// WriteEnabled reports the current write-mode state.
func (s *Sim) WriteEnabled() bool { return s.writeEnabled }

// Calls returns the adapter call log.
func (s *Sim) Calls() []string {
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// ResetCalls clears the call log.
func (s *Sim) ResetCalls() { s.calls = nil }

// Size is the total flash size in bytes.
func (s *Sim) Size() uint32 { return uint32(len(s.mem)) }

// PageSize is the erase granularity.
func (s *Sim) PageSize() uint32 { return s.pageSize }

// Snapshot copies the raw flash bytes.
func (s *Sim) Snapshot() []byte {
	out := make([]byte, len(s.mem))
	copy(out, s.mem)
	return out
}

func (s *Sim) check(addr uint32) {
	if addr%cellBytes != 0 || int(addr)+cellBytes > len(s.mem) {
		panic(fmt.Sprintf("device sim: bad cell address 0x%X", addr))
	}
}

func fill(b []byte) {
	for i := range b {
		b[i] = erasedByte
	}
}
