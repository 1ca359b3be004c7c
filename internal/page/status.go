// internal/page/status.go
package page

// Status is the lifecycle marker stored in a page's first cell.
// Transitions Erased -> Active -> Full only clear bits, so each one can be
// programmed in place; going back requires an erase.
type Status uint8

const (
	Erased Status = iota
	Active
	Full
)

// ---- HEADER CELL ENCODING ----

const (
	cellActive uint16 = 0x0FFF
	cellFull   uint16 = 0x00FF

	// CellErased is the value of any cell after an erase.
	CellErased uint16 = 0xFFFF
)

// Encode returns the header cell value for s.
func (s Status) Encode() uint16 {
	switch s {
	case Active:
		return cellActive
	case Full:
		return cellFull
	default:
		return CellErased
	}
}

// DecodeStatus maps a header cell to a status.
// Anything that is not exactly Active or Full is treated as Erased.
func DecodeStatus(v uint16) Status {
	switch v {
	case cellActive:
		return Active
	case cellFull:
		return Full
	default:
		return Erased
	}
}

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Full:
		return "full"
	default:
		return "erased"
	}
}
