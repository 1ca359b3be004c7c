// internal/snapshot/encode.go
package snapshot

import (
	"github.com/sigurn/crc16"

	"github.com/tamzrod/veeprom/internal/slot"
)

var crcTable = crc16.MakeTable(crc16.CRC16_MODBUS)

// Encode converts a Snapshot into the live part of the register block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, LiveRegisters)

	for i, sl := range slot.All() {
		v, ok := s.Value(sl)
		if !ok {
			continue
		}
		regs[RegPresent] |= 1 << uint(i)
		regs[RegValuesStart+i] = uint16(v)
	}

	regs[RegActivePage] = s.ActivePage
	regs[RegCRC] = Checksum(regs[:RegCRC])

	return regs
}

// EncodeBlock returns the full block: live registers, then device name.
func EncodeBlock(s Snapshot, deviceName string) []uint16 {
	regs := make([]uint16, RegistersPerBlock)
	copy(regs, Encode(s))
	copy(regs[RegDeviceNameStart:], EncodeDeviceName(deviceName))
	return regs
}

// Checksum is CRC-16/MODBUS over the registers in big-endian byte order.
func Checksum(regs []uint16) uint16 {
	b := make([]byte, 0, len(regs)*2)
	for _, r := range regs {
		b = append(b, byte(r>>8), byte(r))
	}
	return crc16.Checksum(b, crcTable)
}

// EncodeDeviceName packs up to 16 ASCII characters into 8 registers.
// Each register stores two ASCII bytes in big-endian order.
func EncodeDeviceName(name string) []uint16 {
	out := make([]uint16, RegDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
