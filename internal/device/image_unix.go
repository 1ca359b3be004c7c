//go:build unix

// internal/device/image_unix.go

package device

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Image is flash persisted in a file and mapped into memory.
// A new or empty file is sized and erased on open.
// Dirty pages are flushed to disk whenever write mode is turned off.
type Image struct {
	path     string
	f        *os.File
	data     []byte
	pageSize uint32

	writeEnabled bool
}

// OpenImage maps a flash image of size bytes at path.
// An existing file must already have exactly that size.
func OpenImage(path string, size, pageSize uint32) (*Image, error) {
	if size == 0 || pageSize == 0 || size%pageSize != 0 {
		return nil, fmt.Errorf("device image: size %d is not a multiple of page size %d", size, pageSize)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("device image: open %s: %w", path, err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("device image: stat %s: %w", path, err)
	}

	fresh := st.Size() == 0
	switch {
	case fresh:
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("device image: size %s: %w", path, err)
		}
	case st.Size() != int64(size):
		f.Close()
		return nil, fmt.Errorf("device image: %s is %d bytes, want %d", path, st.Size(), size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("device image: mmap %s: %w", path, err)
	}

	img := &Image{
		path:     path,
		f:        f,
		data:     data,
		pageSize: pageSize,
	}

	if fresh {
		fill(img.data)
		img.sync()
		log.Infof("initialized flash image %s (%d bytes)", path, size)
	}

	return img, nil
}

// ---- page.Memory ----

func (m *Image) ReadU16(addr uint32) uint16 {
	m.check(addr)
	return binary.LittleEndian.Uint16(m.data[addr:])
}

func (m *Image) WriteU16(addr uint32, v uint16) {
	m.check(addr)
	old := binary.LittleEndian.Uint16(m.data[addr:])
	binary.LittleEndian.PutUint16(m.data[addr:], old&v)
}

// ---- flash.Adapter ----

func (m *Image) Setup() {}

func (m *Image) Teardown() { m.sync() }

func (m *Image) EnableWriteMode() { m.writeEnabled = true }

func (m *Image) DisableWriteMode() {
	m.writeEnabled = false
	m.sync()
}

func (m *Image) ErasePage(addr uint32) {
	base := addr - addr%m.pageSize
	if int(base) >= len(m.data) {
		return
	}
	fill(m.data[base : base+m.pageSize])
	m.sync()
}

func (m *Image) EraseAll() {
	fill(m.data)
	m.sync()
}

func (m *Image) Reset() {}

// ---- lifecycle ----

func (m *Image) Size() uint32     { return uint32(len(m.data)) }
func (m *Image) PageSize() uint32 { return m.pageSize }

// Close flushes and unmaps the image.
func (m *Image) Close() error {
	if m.data == nil {
		return nil
	}
	if err := unix.Msync(m.data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("device image: msync %s: %w", m.path, err)
	}
	if err := unix.Munmap(m.data); err != nil {
		return fmt.Errorf("device image: munmap %s: %w", m.path, err)
	}
	m.data = nil
	return m.f.Close()
}

func (m *Image) sync() {
	if err := unix.Msync(m.data, unix.MS_SYNC); err != nil {
		log.Errorf("msync %s: %v", m.path, err)
	}
}

func (m *Image) check(addr uint32) {
	if addr%cellBytes != 0 || int(addr)+cellBytes > len(m.data) {
		panic(fmt.Sprintf("device image: bad cell address 0x%X", addr))
	}
}
