// internal/snapshot/take.go
package snapshot

import (
	"github.com/tamzrod/veeprom/internal/flash"
	"github.com/tamzrod/veeprom/internal/page"
)

// Take captures the current slot values and active page of f.
func Take(f *flash.Flash) Snapshot {
	s := Snapshot{Values: f.Snapshot()}

	for i, p := range f.Inspect() {
		if p.Status == page.Active {
			s.ActivePage = uint16(i)
		}
	}
	return s
}
