// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Flash   FlashConfig    `yaml:"flash"`
	Log     LogConfig      `yaml:"log"`
	Publish *PublishConfig `yaml:"publish"` // optional
}

// ---- FLASH ----

type FlashConfig struct {
	// Image is the backing file. Empty means volatile RAM flash.
	Image    string   `yaml:"image"`
	PageSize uint32   `yaml:"page_size"`
	Pages    []uint32 `yaml:"pages"` // exactly two base addresses
}

// Size is the smallest flash size that holds both pages.
func (f FlashConfig) Size() uint32 {
	var end uint32
	for _, base := range f.Pages {
		if e := base + f.PageSize; e > end {
			end = e
		}
	}
	return end
}

// ---- LOGGING ----

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// ---- PUBLISH (Modbus export) ----

type PublishConfig struct {
	Mode         string `yaml:"mode"`     // tcp | rtu
	Endpoint     string `yaml:"endpoint"` // host:port or serial device
	UnitID       uint8  `yaml:"unit_id"`
	BaseRegister uint16 `yaml:"base_register"`
	IntervalMs   int    `yaml:"interval_ms"`
	TimeoutMs    int    `yaml:"timeout_ms"`
	DeviceName   string `yaml:"device_name"`

	// RTU only
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"` // N | E | O
	StopBits int    `yaml:"stop_bits"`
}

// Load reads a YAML config file. It does not validate.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
