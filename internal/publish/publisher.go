// internal/publish/publisher.go
package publish

import (
	"errors"
	"fmt"
	"strings"

	logging "github.com/op/go-logging"

	"github.com/tamzrod/veeprom/internal/snapshot"
)

var log = logging.MustGetLogger("publish")

// registerClient is the exact contract the publisher uses.
type registerClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// Target is where the snapshot block lives on the Modbus side.
type Target struct {
	UnitID       uint8
	BaseRegister uint16
	DeviceName   string
}

// Publisher delivers snapshots into a register block.
// The first write, and the first write after any failure, re-asserts the
// full block including the device name. Otherwise only changed registers
// are written.
type Publisher struct {
	target Target
	cli    registerClient

	needFull bool
	last     []uint16
}

func New(target Target, cli registerClient) *Publisher {
	return &Publisher{
		target:   target,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
	}
}

// Publish delivers one snapshot.
func (p *Publisher) Publish(s snapshot.Snapshot) error {
	if p == nil || p.cli == nil {
		return errors.New("publisher: no client")
	}

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if p.needFull {
		regs := snapshot.EncodeBlock(s, p.target.DeviceName)

		if err := p.cli.WriteRegisters(p.target.UnitID, p.target.BaseRegister, regs); err != nil {
			p.needFull = true
			return fmt.Errorf("publisher: full block write failed: %w", err)
		}

		p.needFull = false
		p.last = regs[:snapshot.LiveRegisters]
		return nil
	}

	regs := snapshot.Encode(s)

	var errs []string
	for i, v := range regs {
		if p.last[i] == v {
			continue
		}
		addr := p.target.BaseRegister + uint16(i)
		if err := p.cli.WriteRegisters(p.target.UnitID, addr, []uint16{v}); err != nil {
			errs = append(errs, fmt.Sprintf("reg %d write failed: %v", addr, err))
			continue
		}
		p.last[i] = v
	}

	if len(errs) > 0 {
		// next publish rewrites the whole block
		p.needFull = true
		return errors.New("publisher: " + strings.Join(errs, " | "))
	}

	return nil
}
