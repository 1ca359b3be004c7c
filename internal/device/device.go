// internal/device/device.go
package device

import logging "github.com/op/go-logging"

var log = logging.MustGetLogger("device")

// Backend is a flash medium usable both as raw cell memory and as the
// controller adapter. Sim and Image implement it.
type Backend interface {
	ReadU16(addr uint32) uint16
	WriteU16(addr uint32, v uint16)

	Setup()
	Teardown()
	EnableWriteMode()
	DisableWriteMode()
	ErasePage(addr uint32)
	EraseAll()
	Reset()

	Size() uint32
	PageSize() uint32
	Close() error
}

var (
	_ Backend = (*Sim)(nil)
	_ Backend = (*Image)(nil)
)

// Close is a no-op for RAM flash.
func (s *Sim) Close() error { return nil }
