//go:build windows

package writer

import (
	"os"

	"golang.org/x/sys/windows"
)

// datasync flushes file buffers with FlushFileBuffers.
func datasync(f *os.File) error {
	return windows.FlushFileBuffers(windows.Handle(f.Fd()))
}
