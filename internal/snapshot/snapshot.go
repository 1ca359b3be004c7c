// internal/snapshot/snapshot.go
package snapshot

import "github.com/tamzrod/veeprom/internal/slot"

// Snapshot is the exported view of the virtual EEPROM.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Values     map[slot.Slot]byte
	ActivePage uint16
}

// Value returns the stored value of sl and whether it is present.
func (s Snapshot) Value(sl slot.Slot) (byte, bool) {
	v, ok := s.Values[sl]
	return v, ok
}
