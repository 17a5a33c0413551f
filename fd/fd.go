//go:build unix

package fd

import (
	stderrors "errors"
	"os"

	"golang.org/x/sys/unix"

	"github.com/wippyai/scope/resource"
)

// Invalid is the descriptor value an unallocated guard holds.
const Invalid = -1

// Traits treats negative descriptors as unallocated.
type Traits struct{}

// MakeDefault returns Invalid.
func (Traits) MakeDefault() int { return Invalid }

// IsAllocated reports whether n is a real descriptor.
func (Traits) IsAllocated(n int) bool { return n >= 0 }

// Deleter closes a descriptor. EINTR is treated as success: the kernel has
// already released the descriptor and retrying could close a reused number.
type Deleter struct{}

// Delete closes *n.
func (Deleter) Delete(n *int) error {
	err := unix.Close(*n)
	if stderrors.Is(err, unix.EINTR) {
		return nil
	}
	return err
}

// FD is a guarded descriptor.
type FD = resource.Unique[Traits, int, Deleter]

// Adopt takes ownership of an existing descriptor. A negative n yields an
// unallocated guard.
func Adopt(n int) (*FD, error) {
	return resource.New[Traits](n, Deleter{})
}

// Open opens path and returns the guarded descriptor. O_CLOEXEC is always
// added to flags.
func Open(path string, flags int, perm uint32) (*FD, error) {
	n, err := unix.Open(path, flags|unix.O_CLOEXEC, perm)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return Adopt(n)
}

// Pipe creates a pipe and returns guards for its read and write ends. If the
// second guard cannot be built the first is closed.
func Pipe() (r, w *FD, err error) {
	var p [2]int
	if err := unix.Pipe(p[:]); err != nil {
		return nil, nil, os.NewSyscallError("pipe", err)
	}
	unix.CloseOnExec(p[0])
	unix.CloseOnExec(p[1])
	if r, err = Adopt(p[0]); err != nil {
		unix.Close(p[1])
		return nil, nil, err
	}
	if w, err = Adopt(p[1]); err != nil {
		r.Close()
		return nil, nil, err
	}
	return r, w, nil
}

// File converts the guard into an *os.File. The guard is released and the
// file becomes the owner; an unallocated guard yields nil.
func File(f *FD, name string) *os.File {
	if !f.Allocated() {
		return nil
	}
	n := f.Get()
	f.Release()
	return os.NewFile(uintptr(n), name)
}
