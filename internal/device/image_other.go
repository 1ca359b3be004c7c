//go:build !unix

// internal/device/image_other.go

package device

import "errors"

// Image is only available on unix platforms.
type Image struct{ Sim }

// OpenImage is not supported on this platform.
func OpenImage(path string, size, pageSize uint32) (*Image, error) {
	return nil, errors.New("device image: memory-mapped images require a unix platform")
}
