// internal/page/memory.go
package page

// Memory is raw cell access at absolute byte addresses.
// Addresses are always even; one cell is two bytes.
// Flash hardware only clears bits on a write; implementations backed by
// other media may store the value verbatim.
type Memory interface {
	ReadU16(addr uint32) uint16
	WriteU16(addr uint32, v uint16)
}
