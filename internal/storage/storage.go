// internal/storage/storage.go
package storage

import (
	"errors"
	"fmt"

	"github.com/tamzrod/veeprom/internal/page"
	"github.com/tamzrod/veeprom/internal/slot"
)

// PageFullError reports that the active page has no free cell left.
// Next must be erased before Rollover is called.
type PageFullError struct {
	Active *page.Page
	Next   *page.Page
}

func (e *PageFullError) Error() string {
	return fmt.Sprintf(
		"storage: page 0x%X full, next page 0x%X",
		e.Active.Address(),
		e.Next.Address(),
	)
}

func (e *PageFullError) Unwrap() error { return page.ErrPageFull }

// ErrRollover wraps any failure while compacting into the next page.
var ErrRollover = errors.New("storage: rollover failed")

// Storage is a pair of pages with exactly one Active at a time.
// It never erases flash; that is left to the caller.
type Storage struct {
	pages [2]*page.Page
}

// New builds storage over two distinct, equally sized pages.
func New(first, second *page.Page) (*Storage, error) {
	if first == nil || second == nil {
		return nil, errors.New("storage: two pages required")
	}
	if first.Address() == second.Address() {
		return nil, errors.New("storage: pages must not share an address")
	}
	if first.Size() != second.Size() {
		return nil, fmt.Errorf("storage: page sizes differ (%d, %d)", first.Size(), second.Size())
	}
	lo, hi := first, second
	if lo.Address() > hi.Address() {
		lo, hi = hi, lo
	}
	if lo.Address()+lo.Size() > hi.Address() {
		return nil, errors.New("storage: pages overlap")
	}
	return &Storage{pages: [2]*page.Page{first, second}}, nil
}

// Pages returns both pages in construction order.
func (s *Storage) Pages() [2]*page.Page { return s.pages }

// Read returns the current value of sl. ok is false when the slot was
// never written (or sl is not a defined slot).
func (s *Storage) Read(sl slot.Slot) (byte, bool) {
	if !sl.Valid() {
		return 0, false
	}
	v, err := s.ActivePage().Read(sl.Byte())
	if err != nil {
		return 0, false
	}
	return v, true
}

// Write appends value for sl to the active page.
// A full page yields *PageFullError.
func (s *Storage) Write(sl slot.Slot, value byte) error {
	if !sl.Valid() {
		return fmt.Errorf("storage: %w: 0x%02X", slot.ErrUnknownSlot, sl.Byte())
	}

	active := s.ActivePage()
	err := active.Write(sl.Byte(), value)
	if errors.Is(err, page.ErrPageFull) {
		return &PageFullError{Active: active, Next: s.NextPage()}
	}
	return err
}

// Rollover marks the active page Full, the next page Active, and copies
// the latest record of every address into the new page, newest first.
// The next page must be erased beforehand.
func (s *Storage) Rollover() error {
	from := s.ActivePage()
	to := s.NextPage()

	from.SetStatus(page.Full)
	to.SetStatus(page.Active)

	var (
		seen [256]bool
		err  error
	)
	from.ScanBackward(func(r page.Record) bool {
		if seen[r.Address] {
			return true
		}
		seen[r.Address] = true

		if werr := to.Write(r.Address, r.Value); werr != nil {
			err = fmt.Errorf("%w: address 0x%02X: %w", ErrRollover, r.Address, werr)
			return false
		}
		return true
	})

	return err
}

// ActivePage returns the Active page. On virgin flash no page is Active
// yet and the first page is promoted.
func (s *Storage) ActivePage() *page.Page {
	if i, ok := s.activeIndex(); ok {
		return s.pages[i]
	}
	s.pages[0].SetStatus(page.Active)
	return s.pages[0]
}

// NextPage returns the page that follows the active one.
func (s *Storage) NextPage() *page.Page {
	i, ok := s.activeIndex()
	if !ok {
		return s.pages[1]
	}
	return s.pages[(i+1)%len(s.pages)]
}

func (s *Storage) activeIndex() (int, bool) {
	for i, p := range s.pages {
		if p.Status() == page.Active {
			return i, true
		}
	}
	return 0, false
}
