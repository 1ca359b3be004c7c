// internal/logging/logging.go
package logging

import (
	"fmt"
	"os"
	"strings"

	gologging "github.com/op/go-logging"
)

const format = `[%{time:2006-01-02 15:04:05.000}] %{level:7s} %{module}: %{message}`

// Configure routes all module loggers to filename, or to os.Stderr when
// filename is empty. The returned file (if any) must be closed by the caller.
func Configure(filename, level string) (*os.File, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	var (
		backend *gologging.LogBackend
		lf      *os.File
	)

	if filename != "" {
		lf, err = os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: open %s: %w", filename, err)
		}
		backend = gologging.NewLogBackend(lf, "", 0)
	} else {
		backend = gologging.NewLogBackend(os.Stderr, "", 0)
	}

	formatted := gologging.NewBackendFormatter(backend, gologging.MustStringFormatter(format))
	leveled := gologging.AddModuleLevel(formatted)
	leveled.SetLevel(lvl, "")
	gologging.SetBackend(leveled)

	return lf, nil
}

func parseLevel(level string) (gologging.Level, error) {
	if strings.TrimSpace(level) == "" {
		return gologging.INFO, nil
	}
	lvl, err := gologging.LogLevel(strings.ToUpper(level))
	if err != nil {
		return 0, fmt.Errorf("logging: unknown level %q", level)
	}
	return lvl, nil
}
