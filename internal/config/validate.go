// internal/config/validate.go
package config

import (
	"fmt"
	"math"
	"sort"
)

const (
	ModeTCP = "tcp"
	ModeRTU = "rtu"

	pageAlign   uint32 = 32
	maxPageSize uint32 = 1 << 20
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	if err := validateFlash(cfg.Flash); err != nil {
		return err
	}

	if cfg.Publish != nil {
		if err := validatePublish(cfg.Publish); err != nil {
			return err
		}
	}

	return nil
}

// ------------------------------------------------------------
// FLASH GEOMETRY VALIDATION
// ------------------------------------------------------------

func validateFlash(f FlashConfig) error {
	size := f.PageSize
	if size == 0 {
		size = DefaultPageSize
	}

	if size%pageAlign != 0 {
		return fmt.Errorf("flash: page_size %d must be a multiple of %d", f.PageSize, pageAlign)
	}
	if size > maxPageSize {
		return fmt.Errorf("flash: page_size %d exceeds %d", size, maxPageSize)
	}

	if len(f.Pages) == 0 {
		return nil
	}
	if len(f.Pages) != 2 {
		return fmt.Errorf("flash: exactly 2 pages required, got %d", len(f.Pages))
	}

	bases := append([]uint32(nil), f.Pages...)
	sort.Slice(bases, func(i, j int) bool { return bases[i] < bases[j] })

	for _, b := range bases {
		if b%size != 0 {
			return fmt.Errorf("flash: page base 0x%X is not aligned to page_size %d", b, size)
		}
		if uint64(b)+uint64(size) > math.MaxUint32 {
			return fmt.Errorf("flash: page 0x%X+%d runs past the 32-bit address space", b, size)
		}
	}

	// overlap check (page spans are [base, base+size))
	if uint64(bases[0])+uint64(size) > uint64(bases[1]) {
		return fmt.Errorf(
			"flash: pages overlap: 0x%X-0x%X and 0x%X-0x%X",
			bases[0], bases[0]+size-1,
			bases[1], bases[1]+size-1,
		)
	}

	return nil
}

// ------------------------------------------------------------
// PUBLISH VALIDATION (OPT-IN)
// ------------------------------------------------------------

func validatePublish(p *PublishConfig) error {
	switch p.Mode {
	case "", ModeTCP, ModeRTU:
	default:
		return fmt.Errorf("publish: unknown mode %q (want tcp or rtu)", p.Mode)
	}

	if p.Endpoint == "" {
		return fmt.Errorf("publish: endpoint required")
	}
	if p.IntervalMs < 0 {
		return fmt.Errorf("publish: interval_ms must be >= 0")
	}
	if p.TimeoutMs < 0 {
		return fmt.Errorf("publish: timeout_ms must be >= 0")
	}

	// device_name sanity (ASCII only)
	for i := 0; i < len(p.DeviceName); i++ {
		if p.DeviceName[i] > 0x7F {
			return fmt.Errorf("publish: device_name must contain ASCII characters only")
		}
	}

	switch p.Parity {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("publish: parity %q must be N, E or O", p.Parity)
	}

	return nil
}
