//go:build linux

package metadata

import (
	"os"
	"time"
)

// getCreateTime returns the creation time of a file.
// Linux doesn't reliably expose birth time through syscall.Stat_t
// (statx would be needed on supporting filesystems), so fall back to
// modification time.
func getCreateTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
