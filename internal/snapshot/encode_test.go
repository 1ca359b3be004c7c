// internal/snapshot/encode_test.go
package snapshot

import (
	"testing"

	"github.com/tamzrod/veeprom/internal/slot"
)

func TestEncode_Layout(t *testing.T) {
	s := Snapshot{
		Values: map[slot.Slot]byte{
			slot.Configuration: 0x12,
			slot.MustCustom(3): 0xFE,
		},
		ActivePage: 1,
	}

	regs := Encode(s)
	if len(regs) != LiveRegisters {
		t.Fatalf("expected %d regs, got %d", LiveRegisters, len(regs))
	}

	// configuration is index 0, custom3 is index 3
	if regs[RegPresent] != 0b01001 {
		t.Fatalf("present mask: got=%05b want=01001", regs[RegPresent])
	}
	if regs[RegValuesStart] != 0x12 {
		t.Fatalf("configuration reg: got=0x%X", regs[RegValuesStart])
	}
	if regs[RegValuesStart+3] != 0xFE {
		t.Fatalf("custom3 reg: got=0x%X", regs[RegValuesStart+3])
	}
	if regs[RegValuesStart+1] != 0 {
		t.Fatalf("absent slot must encode as zero, got=0x%X", regs[RegValuesStart+1])
	}
	if regs[RegActivePage] != 1 {
		t.Fatalf("active page: got=%d", regs[RegActivePage])
	}
	if regs[RegCRC] != Checksum(regs[:RegCRC]) {
		t.Fatalf("crc mismatch")
	}
}

func TestEncode_CRCTracksValues(t *testing.T) {
	a := Encode(Snapshot{Values: map[slot.Slot]byte{slot.Configuration: 1}})
	b := Encode(Snapshot{Values: map[slot.Slot]byte{slot.Configuration: 2}})

	if a[RegCRC] == b[RegCRC] {
		t.Fatalf("crc did not change with value")
	}
}

// crcModbus is the bitwise reference: reflected poly 0xA001, init 0xFFFF.
func crcModbus(b []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, c := range b {
		crc ^= uint16(c)
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = crc>>1 ^ 0xA001
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

func TestChecksum_MatchesReference(t *testing.T) {
	regs := []uint16{0x3132, 0x3334, 0x3536, 0x3738, 0x0000, 0xFFFF}
	want := crcModbus([]byte{0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37, 0x38, 0x00, 0x00, 0xFF, 0xFF})

	if got := Checksum(regs); got != want {
		t.Fatalf("checksum: got=0x%04X want=0x%04X", got, want)
	}
}

func TestEncodeDeviceName(t *testing.T) {
	regs := EncodeDeviceName("AB\x01")
	if len(regs) != RegDeviceNameSlots {
		t.Fatalf("expected %d regs, got %d", RegDeviceNameSlots, len(regs))
	}
	if regs[0] != 0x4142 {
		t.Fatalf("reg0: got=0x%04X want=0x4142", regs[0])
	}
	if regs[1] != uint16('?')<<8 {
		t.Fatalf("reg1: got=0x%04X want=0x3F00", regs[1])
	}

	long := EncodeDeviceName("0123456789ABCDEFXYZ")
	if long[7] != 0x4546 {
		t.Fatalf("truncation: last reg got=0x%04X want=0x4546", long[7])
	}
}

func TestEncodeBlock(t *testing.T) {
	regs := EncodeBlock(Snapshot{}, "DEV")
	if len(regs) != RegistersPerBlock {
		t.Fatalf("expected %d regs, got %d", RegistersPerBlock, len(regs))
	}
	if regs[RegDeviceNameStart] != 0x4445 {
		t.Fatalf("name reg: got=0x%04X", regs[RegDeviceNameStart])
	}
}
