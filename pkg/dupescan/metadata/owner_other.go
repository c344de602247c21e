//go:build !unix

package metadata

import (
	"errors"
	"os"
)

// getOwner returns the owner username for a file.
// On unsupported platforms ownership is not available.
func getOwner(info os.FileInfo) (string, error) {
	return "", errors.New("ownership lookup not supported on this platform")
}
