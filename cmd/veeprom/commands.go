// cmd/veeprom/commands.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/inancgumus/screen"

	"github.com/tamzrod/veeprom/internal/publish"
	"github.com/tamzrod/veeprom/internal/slot"
	"github.com/tamzrod/veeprom/internal/snapshot"
)

// ---- slots ----

type SlotsCmd struct{}

func (c *SlotsCmd) Run(ctx *Context) error {
	for _, s := range slot.All() {
		fmt.Printf("%-14s 0x%02X\n", s, s.Byte())
	}
	return nil
}

// ---- read ----

type ReadCmd struct {
	Slot    string `arg:"" help:"Slot name (configuration, custom1..custom4) or wire tag."`
	Default int    `help:"Value to print when the slot was never written (negative: none)." default:"-1"`
}

func (c *ReadCmd) Run(ctx *Context) error {
	s, err := slot.Parse(c.Slot)
	if err != nil {
		return err
	}

	v, ok := ctx.Flash.Read(s)
	switch {
	case ok:
		fmt.Printf("%s = %d (0x%02X)\n", s, v, v)
	case c.Default >= 0:
		fmt.Printf("%s = %d (default)\n", s, c.Default)
	default:
		fmt.Printf("%s = <unset>\n", s)
	}
	return nil
}

// ---- write ----

type WriteCmd struct {
	Slot  string `arg:"" help:"Slot name (configuration, custom1..custom4) or wire tag."`
	Value string `arg:"" help:"Byte value, decimal or 0x-prefixed hex."`
}

func (c *WriteCmd) Run(ctx *Context) error {
	s, err := slot.Parse(c.Slot)
	if err != nil {
		return err
	}

	v, err := strconv.ParseUint(c.Value, 0, 8)
	if err != nil {
		return fmt.Errorf("value %q: must be 0..255", c.Value)
	}

	if err := ctx.Flash.Write(s, byte(v)); err != nil {
		return err
	}

	log.Infof("wrote %s = %d", s, v)
	return nil
}

// ---- erase ----

type EraseCmd struct {
	Yes bool `help:"Do not ask for confirmation." short:"y"`
}

func (c *EraseCmd) Run(ctx *Context) error {
	if !c.Yes {
		fmt.Fprint(os.Stderr, "erase all flash pages? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			return nil
		}
	}

	ctx.Flash.EraseAll()
	log.Infof("flash erased")
	return nil
}

// ---- dump ----

type DumpCmd struct {
	Raw bool `help:"Include a hex dump of each page."`
}

func (c *DumpCmd) Run(ctx *Context) error {
	renderDump(os.Stdout, ctx.Flash, c.Raw)
	return nil
}

// ---- watch ----

type WatchCmd struct {
	Interval time.Duration `help:"Redraw interval." default:"1s"`
}

func (c *WatchCmd) Run(ctx *Context) error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval %s: must be positive", c.Interval)
	}

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		screen.Clear()
		screen.MoveTopLeft()
		renderDump(os.Stdout, ctx.Flash, false)

		select {
		case <-ctx.Ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// ---- publish ----

type PublishCmd struct {
	Once bool `help:"Publish a single full block and exit."`
}

func (c *PublishCmd) Run(ctx *Context) error {
	pc := ctx.Config.Publish
	if pc == nil {
		return fmt.Errorf("publish: no publish section in config")
	}

	p, closeClient, err := publish.Build(pc)
	if err != nil {
		return err
	}
	defer closeClient()

	take := func() snapshot.Snapshot { return snapshot.Take(ctx.Flash) }

	if c.Once {
		return p.Publish(take())
	}

	log.Infof("publishing to %s (%s) unit=%d base=%d every %dms",
		pc.Endpoint, pc.Mode, pc.UnitID, pc.BaseRegister, pc.IntervalMs)

	p.Run(ctx.Ctx, time.Duration(pc.IntervalMs)*time.Millisecond, take)
	return nil
}
