// Package fd guards POSIX file descriptors.
//
// A descriptor is an int where -1 means "no descriptor", so the guard uses
// traits-derived tracking and needs no separate flag:
//
//	f, err := fd.Open("/etc/hosts", unix.O_RDONLY, 0)
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	n, err := unix.Read(f.Get(), buf)
package fd
