// internal/page/page.go
package page

import (
	"errors"
	"fmt"
	"math/bits"
)

// ---- LAYOUT ----
//
// 0-1   status cell
// 2-3   dirty-sector hint
// 4+    records: (virtual address << 8) | value
//
// The data region is split into 16 sectors. The hint starts at 0xFFFF and
// is shifted right once per sector that receives data, so its leading
// zero count is the number of sectors known to hold records.

const (
	offStatus uint32 = 0
	offHint   uint32 = 2

	// HeaderSize is the number of bytes before the first record.
	HeaderSize uint32 = 4

	// Sectors is the number of hint sectors per page.
	Sectors = 16

	// SizeAlign is the granularity page sizes must respect.
	SizeAlign uint32 = Sectors * 2

	// ReservedAddress can never be stored: a record with it would read
	// back as an erased cell.
	ReservedAddress byte = 0xFF
)

var (
	ErrNotFound       = errors.New("page: address not found")
	ErrPageFull       = errors.New("page: full")
	ErrInvalidAddress = errors.New("page: invalid virtual address 0xFF")
	ErrBadGeometry    = errors.New("page: bad geometry")
)

// Record is one decoded record cell.
type Record struct {
	Offset  uint32
	Address byte
	Value   byte
}

// Page is one erasable flash region.
type Page struct {
	mem  Memory
	base uint32
	size uint32
}

// New binds a page to mem at base. size must be a positive multiple of 32.
func New(mem Memory, base, size uint32) (*Page, error) {
	if mem == nil {
		return nil, fmt.Errorf("%w: nil memory", ErrBadGeometry)
	}
	if size == 0 || size%SizeAlign != 0 {
		return nil, fmt.Errorf("%w: size %d is not a multiple of %d", ErrBadGeometry, size, SizeAlign)
	}
	if base%2 != 0 {
		return nil, fmt.Errorf("%w: base 0x%X is not cell aligned", ErrBadGeometry, base)
	}
	return &Page{mem: mem, base: base, size: size}, nil
}

// Address is the absolute base address of the page.
func (p *Page) Address() uint32 { return p.base }

// Size is the page size in bytes.
func (p *Page) Size() uint32 { return p.size }

func (p *Page) Status() Status {
	return DecodeStatus(p.cell(offStatus))
}

func (p *Page) SetStatus(s Status) {
	p.setCell(offStatus, s.Encode())
}

// Hint returns the raw dirty-sector hint cell.
func (p *Page) Hint() uint16 {
	return p.cell(offHint)
}

func (p *Page) sectorSize() uint32 {
	return p.size / Sectors
}

// SearchRange returns the reachable byte window [start, end).
// Record cells live at even offsets start, start+2, ... below end.
func (p *Page) SearchRange() (start, end uint32) {
	ss := p.sectorSize()
	dirty := uint32(bits.LeadingZeros16(p.Hint()))

	end = ss - 1 + dirty*ss
	if end > p.size-1 {
		end = p.size - 1
	}
	return HeaderSize, end
}

// extendSearchRange shrinks the hint until off falls inside the window.
func (p *Page) extendSearchRange(off uint32) {
	hint := p.Hint()
	_, end := p.SearchRange()

	changed := false
	for off >= end && hint != 0 {
		hint >>= 1
		changed = true

		dirty := uint32(bits.LeadingZeros16(hint))
		end = p.sectorSize() - 1 + dirty*p.sectorSize()
	}

	if changed {
		p.setCell(offHint, hint)
	}
}

// Read returns the latest value stored for va.
func (p *Page) Read(va byte) (byte, error) {
	if va == ReservedAddress {
		return 0, ErrInvalidAddress
	}

	var (
		val   byte
		found bool
	)
	p.ScanBackward(func(r Record) bool {
		if r.Address == va {
			val, found = r.Value, true
			return false
		}
		return true
	})

	if !found {
		return 0, ErrNotFound
	}
	return val, nil
}

// Write appends a record for va. It returns ErrPageFull without touching
// flash when no cell is left.
func (p *Page) Write(va, value byte) error {
	if va == ReservedAddress {
		return ErrInvalidAddress
	}

	start, end := p.SearchRange()

	off, ok := p.freeCell(start, end)
	if !ok {
		if p.cell(start) == CellErased {
			// window still virgin
			off = start
		} else {
			// window exhausted; continue in the next sector
			off = end + 1
		}
	}

	if off >= p.size {
		return ErrPageFull
	}

	if off >= end {
		p.extendSearchRange(off)
	}

	p.setCell(off, uint16(va)<<8|uint16(value))
	return nil
}

// freeCell returns the lowest cell of the erased run at the top of the
// window. ok is false when the topmost cell is already written.
func (p *Page) freeCell(start, end uint32) (uint32, bool) {
	var (
		off uint32
		ok  bool
	)
	for o := int64(end) - 1; o >= int64(start); o -= 2 {
		if p.cell(uint32(o)) != CellErased {
			break
		}
		off, ok = uint32(o), true
	}
	return off, ok
}

// ScanBackward visits written records inside the window, newest first,
// until fn returns false.
func (p *Page) ScanBackward(fn func(Record) bool) {
	start, end := p.SearchRange()

	for o := int64(end) - 1; o >= int64(start); o -= 2 {
		c := p.cell(uint32(o))
		if c == CellErased {
			continue
		}
		r := Record{
			Offset:  uint32(o),
			Address: byte(c >> 8),
			Value:   byte(c),
		}
		if !fn(r) {
			return
		}
	}
}

// Records returns every written record in the window, oldest first.
func (p *Page) Records() []Record {
	var out []Record
	p.ScanBackward(func(r Record) bool {
		out = append(out, r)
		return true
	})
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Capacity is the number of record cells a page can hold.
func (p *Page) Capacity() int {
	return int((p.size - HeaderSize) / 2)
}

// Bytes copies the raw page contents, big-endian per cell.
func (p *Page) Bytes() []byte {
	out := make([]byte, p.size)
	for off := uint32(0); off < p.size; off += 2 {
		c := p.cell(off)
		out[off] = byte(c >> 8)
		out[off+1] = byte(c)
	}
	return out
}

func (p *Page) cell(off uint32) uint16 {
	return p.mem.ReadU16(p.base + off)
}

func (p *Page) setCell(off uint32, v uint16) {
	p.mem.WriteU16(p.base+off, v)
}
