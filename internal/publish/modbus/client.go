// internal/publish/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

const (
	ModeTCP = "tcp"
	ModeRTU = "rtu"
)

// EndpointClient is a single connection (TCP or serial RTU) to one endpoint.
// It serializes requests because it mutates SlaveId per write.
type EndpointClient struct {
	mu       sync.Mutex
	client   modbus.Client
	setSlave func(uint8)
	close    func() error
}

type Config struct {
	Mode     string
	Endpoint string
	Timeout  time.Duration

	// RTU only
	BaudRate int
	DataBits int
	Parity   string
	StopBits int
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("publish modbus: endpoint required")
	}

	switch cfg.Mode {
	case "", ModeTCP:
		h := modbus.NewTCPClientHandler(cfg.Endpoint)
		h.Timeout = cfg.Timeout

		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("publish modbus: connect %s: %w", cfg.Endpoint, err)
		}

		return &EndpointClient{
			client:   modbus.NewClient(h),
			setSlave: func(id uint8) { h.SlaveId = id },
			close:    h.Close,
		}, nil

	case ModeRTU:
		h := modbus.NewRTUClientHandler(cfg.Endpoint)
		h.Timeout = cfg.Timeout
		h.BaudRate = cfg.BaudRate
		h.DataBits = cfg.DataBits
		h.Parity = cfg.Parity
		h.StopBits = cfg.StopBits

		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("publish modbus: open %s: %w", cfg.Endpoint, err)
		}

		return &EndpointClient{
			client:   modbus.NewClient(h),
			setSlave: func(id uint8) { h.SlaveId = id },
			close:    h.Close,
		}, nil

	default:
		return nil, fmt.Errorf("publish modbus: unknown mode %q", cfg.Mode)
	}
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.close()
}

func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setSlave(unitID)

	qty := uint16(len(regs))
	payload := packRegisters(regs)

	_, err := c.client.WriteMultipleRegisters(addr, qty, payload)
	return err
}

// Modbus register memory order (BIG-ENDIAN)
func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
