//go:build darwin

package writer

import (
	"os"

	"golang.org/x/sys/unix"
)

// datasync uses F_FULLFSYNC so the data reaches the physical disk,
// not just the drive cache.
func datasync(f *os.File) error {
	if _, err := unix.FcntlInt(f.Fd(), unix.F_FULLFSYNC, 0); err != nil {
		// Some filesystems reject F_FULLFSYNC
		return unix.Fsync(int(f.Fd()))
	}
	return nil
}
