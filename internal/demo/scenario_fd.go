//go:build unix

package demo

import (
	"context"

	"golang.org/x/sys/unix"

	"github.com/wippyai/scope/fd"
)

func init() {
	Register("fd", runFD)
}

// runFD sends a message through a pipe whose write end changes owner
// before it is closed.
func runFD(_ context.Context, sc *Session) error {
	r, w, err := fd.Pipe()
	if err != nil {
		return sc.Fail("pipe", err)
	}
	sc.Record("pipe", "read=%d write=%d", r.Get(), w.Get())
	if err := sc.Own("pipe.r", r); err != nil {
		w.Close()
		return err
	}
	if err := sc.Own("pipe.w", w); err != nil {
		return err
	}

	writer, err := w.Move()
	if err != nil {
		return sc.Fail("move", err)
	}
	sc.Record("move", "write end moved, source allocated=%t", w.Allocated())

	msg := []byte("scoped hello")
	if _, err := unix.Write(writer.Get(), msg); err != nil {
		writer.Close()
		return sc.Fail("write", err)
	}
	if err := writer.Close(); err != nil {
		return sc.Fail("close", err)
	}
	sc.Record("close", "write end closed by new owner")

	buf := make([]byte, 64)
	n, err := unix.Read(r.Get(), buf)
	if err != nil {
		return sc.Fail("read", err)
	}
	sc.Record("read", "%q", buf[:n])

	n, err = unix.Read(r.Get(), buf)
	if err != nil {
		return sc.Fail("read", err)
	}
	sc.Record("eof", "read %d bytes after writer closed", n)
	return nil
}
