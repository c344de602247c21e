//go:build unix

package metadata

import (
	"errors"
	"os"
	"os/user"
	"strconv"
	"syscall"
)

// getOwner returns the owner username for a file.
// Falls back to the UID string if the name cannot be resolved.
func getOwner(info os.FileInfo) (string, error) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "", errors.New("ownership information not exposed by filesystem")
	}

	uid := strconv.FormatUint(uint64(stat.Uid), 10)
	if u, err := user.LookupId(uid); err == nil {
		return u.Username, nil
	}
	return uid, nil
}
