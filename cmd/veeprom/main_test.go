// cmd/veeprom/main_test.go
package main

import (
	"bytes"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/veeprom/internal/config"
	"github.com/tamzrod/veeprom/internal/slot"
)

func testFlashConfig(image string) config.FlashConfig {
	cfg := &config.Config{Flash: config.FlashConfig{Image: image, PageSize: 256}}
	config.Normalize(cfg)
	return cfg.Flash
}

func TestOpenFlashInRAM(t *testing.T) {
	f, backend, err := openFlash(testFlashConfig(""))
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, f.Write(slot.Configuration, 7))
	v, ok := f.Read(slot.Configuration)
	require.True(t, ok)
	assert.Equal(t, byte(7), v)
}

func TestOpenFlashImagePersists(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("image backend requires unix")
	}
	fc := testFlashConfig(filepath.Join(t.TempDir(), "flash.img"))

	f, backend, err := openFlash(fc)
	require.NoError(t, err)
	require.NoError(t, f.Write(slot.MustCustom(1), 99))
	require.NoError(t, f.Close())
	require.NoError(t, backend.Close())

	f, backend, err = openFlash(fc)
	require.NoError(t, err)
	defer backend.Close()

	v, ok := f.Read(slot.MustCustom(1))
	require.True(t, ok)
	assert.Equal(t, byte(99), v)
}

func TestRenderDump(t *testing.T) {
	f, backend, err := openFlash(testFlashConfig(""))
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, f.Write(slot.Configuration, 1))
	require.NoError(t, f.Write(slot.Configuration, 2))

	var buf bytes.Buffer
	renderDump(&buf, f, true)

	out := buf.String()
	assert.Contains(t, out, "page 0 @ 0x0000")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, "page 1 @ 0x0100")
	assert.Contains(t, out, "erased")
	assert.Contains(t, out, "records 2/126")
	assert.Contains(t, out, "configuration")
}

func TestOpenFlashRejectsBadGeometry(t *testing.T) {
	fc := testFlashConfig("")
	fc.Pages = []uint32{0, 0xFFFFFF00}

	_, _, err := openFlash(fc)
	assert.Error(t, err)

	_, _, err = openFlash(config.FlashConfig{})
	assert.Error(t, err)
}

func TestWatchRejectsNonPositiveInterval(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		err := (&WatchCmd{Interval: d}).Run(&Context{})
		assert.Error(t, err, "interval %s", d)
	}
}

func TestCommandFlashUse(t *testing.T) {
	assert.Equal(t, "write", commandName("write <slot> <value>"))
	assert.Equal(t, "slots", commandName("slots"))
	assert.Equal(t, "", commandName(""))

	assert.False(t, needsFlash("slots"))
	assert.True(t, needsFlash("read"))

	ram := testFlashConfig("")
	assert.True(t, warnVolatile("write", ram))
	assert.True(t, warnVolatile("erase", ram))
	assert.False(t, warnVolatile("read", ram))
	assert.False(t, warnVolatile("write", testFlashConfig("flash.img")))
}
