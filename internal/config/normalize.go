// internal/config/normalize.go
package config

const (
	DefaultPageSize   uint32 = 1024
	DefaultLogLevel          = "info"
	DefaultIntervalMs        = 1000
	DefaultTimeoutMs         = 1000
	DefaultBaudRate          = 19200
	DefaultDataBits          = 8
	DefaultParity            = "E"
	DefaultStopBits          = 1

	deviceNameMaxChars = 16
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ------------------------------------------------------------
	// FLASH GEOMETRY
	// ------------------------------------------------------------

	if cfg.Flash.PageSize == 0 {
		cfg.Flash.PageSize = DefaultPageSize
	}
	if len(cfg.Flash.Pages) == 0 {
		cfg.Flash.Pages = []uint32{0, cfg.Flash.PageSize}
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}

	// ------------------------------------------------------------
	// PUBLISH (OPT-IN)
	// ------------------------------------------------------------

	p := cfg.Publish
	if p == nil {
		return
	}

	if p.Mode == "" {
		p.Mode = ModeTCP
	}
	if p.IntervalMs == 0 {
		p.IntervalMs = DefaultIntervalMs
	}
	if p.TimeoutMs == 0 {
		p.TimeoutMs = DefaultTimeoutMs
	}

	// device_name: ASCII already validated, truncate to 16 characters
	if len(p.DeviceName) > deviceNameMaxChars {
		p.DeviceName = p.DeviceName[:deviceNameMaxChars]
	}

	if p.Mode != ModeRTU {
		return
	}
	if p.BaudRate == 0 {
		p.BaudRate = DefaultBaudRate
	}
	if p.DataBits == 0 {
		p.DataBits = DefaultDataBits
	}
	if p.Parity == "" {
		p.Parity = DefaultParity
	}
	if p.StopBits == 0 {
		p.StopBits = DefaultStopBits
	}
}
