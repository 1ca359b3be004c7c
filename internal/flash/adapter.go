// internal/flash/adapter.go
package flash

// Adapter is the flash controller capability the engine needs.
// Every call is synchronous; implementations busy-wait as required.
type Adapter interface {
	Setup()
	Teardown()

	// EnableWriteMode and DisableWriteMode toggle the controller's
	// program-enable state. Both must be idempotent.
	EnableWriteMode()
	DisableWriteMode()

	// ErasePage restores the page at addr to all ones.
	// It must not touch any other page.
	ErasePage(addr uint32)

	EraseAll()
	Reset()
}

// writeMode scopes one enable/disable pair so the controller is never
// left in program mode on return.
type writeMode struct {
	hw      Adapter
	enabled bool
}

func enableWriteMode(hw Adapter) *writeMode {
	w := &writeMode{hw: hw}
	w.enable()
	return w
}

func (w *writeMode) enable() {
	w.hw.EnableWriteMode()
	w.enabled = true
}

func (w *writeMode) disable() {
	if !w.enabled {
		return
	}
	w.hw.DisableWriteMode()
	w.enabled = false
}
