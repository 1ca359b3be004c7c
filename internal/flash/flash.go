// internal/flash/flash.go
package flash

import (
	"errors"
	"fmt"
	"sync"

	logging "github.com/op/go-logging"

	"github.com/tamzrod/veeprom/internal/page"
	"github.com/tamzrod/veeprom/internal/slot"
	"github.com/tamzrod/veeprom/internal/storage"
)

var log = logging.MustGetLogger("flash")

// ErrWriteFailed is returned when a write still fails after rollover.
// It points at a configuration problem (too many slots for the page size).
var ErrWriteFailed = errors.New("flash: write failed")

// Flash is the slot-level virtual EEPROM.
// All calls are serialized; the two pages are owned exclusively.
type Flash struct {
	mu      sync.Mutex
	hw      Adapter
	storage *storage.Storage
}

// New runs the adapter's Setup hook and binds the engine to two pages.
func New(hw Adapter, first, second *page.Page) (*Flash, error) {
	if hw == nil {
		return nil, errors.New("flash: adapter required")
	}
	st, err := storage.New(first, second)
	if err != nil {
		return nil, err
	}

	hw.Setup()

	return &Flash{hw: hw, storage: st}, nil
}

// Close runs the adapter's Teardown hook.
func (f *Flash) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.hw.Teardown()
	return nil
}

// Read returns the stored value of sl. ok is false for a slot that has
// never been written; callers apply their own default.
func (f *Flash) Read(sl slot.Slot) (byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.storage.Read(sl)
}

// Write stores value for sl. A full page is recovered by erasing the
// next page, rolling over, and retrying once.
func (f *Flash) Write(sl slot.Slot, value byte) error {
	if !sl.Valid() {
		return fmt.Errorf("flash: %w: 0x%02X", slot.ErrUnknownSlot, sl.Byte())
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	wm := enableWriteMode(f.hw)
	defer wm.disable()

	err := f.storage.Write(sl, value)

	var full *storage.PageFullError
	if !errors.As(err, &full) {
		return err
	}

	log.Infof("page 0x%X full, rolling over to 0x%X", full.Active.Address(), full.Next.Address())

	wm.disable()
	f.hw.ErasePage(full.Next.Address())

	if err := f.storage.Rollover(); err != nil {
		log.Errorf("rollover to 0x%X: %v", full.Next.Address(), err)
		return err
	}

	wm.enable()

	if err := f.storage.Write(sl, value); err != nil {
		log.Errorf("write %s after rollover: %v", sl, err)
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, sl, err)
	}
	return nil
}

// EraseAll erases the whole flash through the adapter.
func (f *Flash) EraseAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.hw.EraseAll()
}

// Reset asks the adapter to reset the controller.
func (f *Flash) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.hw.Reset()
}

// Snapshot returns the current value of every written slot.
func (f *Flash) Snapshot() map[slot.Slot]byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[slot.Slot]byte)
	for _, sl := range slot.All() {
		if v, ok := f.storage.Read(sl); ok {
			out[sl] = v
		}
	}
	return out
}

// PageInfo describes one page for diagnostics.
type PageInfo struct {
	Address uint32
	Size    uint32
	Status  page.Status
	Hint    uint16
	Start   uint32
	End     uint32
	Records []page.Record
	Raw     []byte
}

// Inspect returns a read-only view of both pages.
// It does not promote a page to Active.
func (f *Flash) Inspect() [2]PageInfo {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out [2]PageInfo
	for i, p := range f.storage.Pages() {
		start, end := p.SearchRange()
		out[i] = PageInfo{
			Address: p.Address(),
			Size:    p.Size(),
			Status:  p.Status(),
			Hint:    p.Hint(),
			Start:   start,
			End:     end,
			Records: p.Records(),
			Raw:     p.Bytes(),
		}
	}
	return out
}
