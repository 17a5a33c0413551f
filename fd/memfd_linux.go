//go:build linux

package fd

import (
	"os"

	"golang.org/x/sys/unix"
)

// Memfd creates an anonymous memory-backed file. The name only shows up in
// /proc/self/fd and need not be unique.
func Memfd(name string) (*FD, error) {
	n, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return nil, os.NewSyscallError("memfd_create", err)
	}
	return Adopt(n)
}
