// internal/publish/builder.go
package publish

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/veeprom/internal/config"
	pmodbus "github.com/tamzrod/veeprom/internal/publish/modbus"
)

// Build connects the Modbus client described by pc and wraps it in a
// Publisher. The returned closer releases the connection.
func Build(pc *cfg.PublishConfig) (*Publisher, func() error, error) {
	if pc == nil {
		return nil, nil, errors.New("publish: not configured")
	}

	c, err := pmodbus.NewEndpointClient(pmodbus.Config{
		Mode:     pc.Mode,
		Endpoint: pc.Endpoint,
		Timeout:  time.Duration(pc.TimeoutMs) * time.Millisecond,
		BaudRate: pc.BaudRate,
		DataBits: pc.DataBits,
		Parity:   pc.Parity,
		StopBits: pc.StopBits,
	})
	if err != nil {
		return nil, nil, err
	}

	p := New(Target{
		UnitID:       pc.UnitID,
		BaseRegister: pc.BaseRegister,
		DeviceName:   pc.DeviceName,
	}, c)

	return p, c.Close, nil
}
