// cmd/veeprom/dump.go
package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sigurn/crc16"

	"github.com/tamzrod/veeprom/internal/flash"
	"github.com/tamzrod/veeprom/internal/page"
	"github.com/tamzrod/veeprom/internal/slot"
)

var crcTable = crc16.MakeTable(crc16.CRC16_MODBUS)

var (
	activeColor = color.New(color.FgGreen, color.Bold)
	fullColor   = color.New(color.FgYellow)
	erasedColor = color.New(color.Faint)
	staleColor  = color.New(color.Faint)
	headerColor = color.New(color.Bold)
)

func statusColor(s page.Status) *color.Color {
	switch s {
	case page.Active:
		return activeColor
	case page.Full:
		return fullColor
	default:
		return erasedColor
	}
}

// renderDump prints both pages; records superseded by a newer record for
// the same address are dimmed.
func renderDump(w io.Writer, f *flash.Flash, raw bool) {
	for i, p := range f.Inspect() {
		headerColor.Fprintf(w, "page %d @ 0x%04X (%d bytes) ", i, p.Address, p.Size)
		statusColor(p.Status).Fprintf(w, "%s\n", p.Status)

		fmt.Fprintf(w, "  hint    0x%04X  window [%d, %d)\n", p.Hint, p.Start, p.End)
		fmt.Fprintf(w, "  records %d/%d  crc16 0x%04X\n",
			len(p.Records), (p.Size-page.HeaderSize)/2, crc16.Checksum(p.Raw, crcTable))

		latest := map[byte]uint32{}
		for _, r := range p.Records {
			latest[r.Address] = r.Offset
		}

		for _, r := range p.Records {
			name := fmt.Sprintf("0x%02X", r.Address)
			if s, err := slot.FromByte(r.Address); err == nil {
				name = s.String()
			}
			line := fmt.Sprintf("    +%04d  %-14s %3d (0x%02X)\n", r.Offset, name, r.Value, r.Value)
			if latest[r.Address] != r.Offset {
				staleColor.Fprint(w, line)
				continue
			}
			fmt.Fprint(w, line)
		}

		if raw {
			hexDump(w, p.Raw)
		}
		fmt.Fprintln(w)
	}
}

func hexDump(w io.Writer, b []byte) {
	const width = 16
	for off := 0; off < len(b); off += width {
		end := off + width
		if end > len(b) {
			end = len(b)
		}
		fmt.Fprintf(w, "  %04X ", off)
		for _, c := range b[off:end] {
			if c == 0xFF {
				erasedColor.Fprintf(w, " %02X", c)
				continue
			}
			fmt.Fprintf(w, " %02X", c)
		}
		fmt.Fprintln(w)
	}
}
