// cmd/veeprom/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	logging "github.com/op/go-logging"

	"github.com/tamzrod/veeprom/internal/config"
	"github.com/tamzrod/veeprom/internal/device"
	"github.com/tamzrod/veeprom/internal/flash"
	vlog "github.com/tamzrod/veeprom/internal/logging"
	"github.com/tamzrod/veeprom/internal/page"
)

var log = logging.MustGetLogger("veeprom")

var CLI struct {
	Config   string `help:"YAML config file." type:"existingfile" short:"c"`
	Image    string `help:"Flash image file (overrides config). Empty keeps flash in RAM."`
	PageSize uint32 `help:"Flash page size in bytes (overrides config)."`
	LogLevel string `help:"Log level (debug, info, warning, error)."`
	LogFile  string `help:"Log file (default stderr)."`

	Slots   SlotsCmd   `cmd:"" help:"List storage slots and their wire tags."`
	Read    ReadCmd    `cmd:"" help:"Read a slot."`
	Write   WriteCmd   `cmd:"" help:"Write a slot."`
	Erase   EraseCmd   `cmd:"" help:"Erase the whole flash."`
	Dump    DumpCmd    `cmd:"" help:"Show both pages: status, hint, records."`
	Watch   WatchCmd   `cmd:"" help:"Redraw the page dump periodically."`
	Publish PublishCmd `cmd:"" help:"Export slot values to a Modbus register block."`
}

// Context is shared by every command.
type Context struct {
	Ctx    context.Context
	Config *config.Config
	Flash  *flash.Flash
}

func main() {
	k := kong.Parse(&CLI,
		kong.Name("veeprom"),
		kong.Description("Wear-leveled virtual EEPROM on two flash pages."),
		kong.UsageOnError(),
	)

	cfg, err := loadConfig()
	k.FatalIfErrorf(err)

	lf, err := vlog.Configure(cfg.Log.File, cfg.Log.Level)
	k.FatalIfErrorf(err)
	if lf != nil {
		defer lf.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := commandName(k.Command())
	if !needsFlash(cmd) {
		k.FatalIfErrorf(k.Run(&Context{Ctx: ctx, Config: cfg}))
		return
	}
	warnVolatile(cmd, cfg.Flash)

	f, backend, err := openFlash(cfg.Flash)
	k.FatalIfErrorf(err)

	err = k.Run(&Context{Ctx: ctx, Config: cfg, Flash: f})

	if cerr := f.Close(); cerr != nil {
		log.Errorf("flash close: %v", cerr)
	}
	if cerr := backend.Close(); cerr != nil {
		log.Errorf("backend close: %v", cerr)
	}

	k.FatalIfErrorf(err)
}

// --------------------
// Load + validate config
// --------------------

func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}

	if CLI.Config != "" {
		loaded, err := config.Load(CLI.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// flags win over the file
	if CLI.Image != "" {
		cfg.Flash.Image = CLI.Image
	}
	if CLI.PageSize != 0 {
		cfg.Flash.PageSize = CLI.PageSize
		cfg.Flash.Pages = nil
	}
	if CLI.LogLevel != "" {
		cfg.Log.Level = CLI.LogLevel
	}
	if CLI.LogFile != "" {
		cfg.Log.File = CLI.LogFile
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	return cfg, nil
}

// --------------------
// Build flash engine
// --------------------

// commandName is the first word of a kong command path ("write <slot> <value>").
func commandName(path string) string {
	fields := strings.Fields(path)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func needsFlash(cmd string) bool {
	return cmd != "slots"
}

// warnVolatile reports whether cmd changes flash that is lost on exit.
func warnVolatile(cmd string, fc config.FlashConfig) bool {
	if fc.Image != "" {
		return false
	}
	switch cmd {
	case "write", "erase":
		log.Warningf("no flash image configured: %s goes to RAM flash and is lost on exit", cmd)
		return true
	}
	return false
}

func openFlash(fc config.FlashConfig) (*flash.Flash, device.Backend, error) {
	if len(fc.Pages) != 2 || fc.PageSize == 0 {
		return nil, nil, errors.New("flash: page_size and exactly 2 pages required")
	}
	if err := config.Validate(&config.Config{Flash: fc}); err != nil {
		return nil, nil, err
	}

	var (
		backend device.Backend
		err     error
	)

	size := fc.Size()
	if fc.Image != "" {
		backend, err = device.OpenImage(fc.Image, size, fc.PageSize)
		if err != nil {
			return nil, nil, err
		}
	} else {
		log.Debugf("no flash image configured, using volatile RAM flash")
		backend = device.NewSim(int(size/fc.PageSize), fc.PageSize)
	}

	a, err := page.New(backend, fc.Pages[0], fc.PageSize)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	b, err := page.New(backend, fc.Pages[1], fc.PageSize)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	f, err := flash.New(backend, a, b)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	return f, backend, nil
}
