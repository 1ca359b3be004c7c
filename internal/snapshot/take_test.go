// internal/snapshot/take_test.go
package snapshot

import (
	"testing"

	"github.com/tamzrod/veeprom/internal/device"
	"github.com/tamzrod/veeprom/internal/flash"
	"github.com/tamzrod/veeprom/internal/page"
	"github.com/tamzrod/veeprom/internal/slot"
)

func TestTake(t *testing.T) {
	sim := device.NewSim(2, 32)
	a, _ := page.New(sim, 0, 32)
	b, _ := page.New(sim, 32, 32)

	f, err := flash.New(sim, a, b)
	if err != nil {
		t.Fatalf("flash.New() err=%v", err)
	}

	// enough writes to roll over onto the second page
	for i := 0; i < a.Capacity()+1; i++ {
		if err := f.Write(slot.MustCustom(2), byte(i)); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	s := Take(f)
	if s.ActivePage != 1 {
		t.Fatalf("active page: got=%d want=1", s.ActivePage)
	}
	if v, ok := s.Value(slot.MustCustom(2)); !ok || v != byte(a.Capacity()) {
		t.Fatalf("custom2: got=%d,%v want=%d", v, ok, a.Capacity())
	}
	if _, ok := s.Value(slot.Configuration); ok {
		t.Fatalf("configuration should be absent")
	}
}
