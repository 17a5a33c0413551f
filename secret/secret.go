// Package secret guards memguard locked buffers so plaintext secrets are
// wiped and unlocked exactly once, on every exit path.
package secret

import (
	"github.com/awnumar/memguard"

	"github.com/wippyai/scope/errors"
	"github.com/wippyai/scope/resource"
)

// Traits treats nil and destroyed buffers as unallocated.
type Traits struct{}

// MakeDefault returns nil.
func (Traits) MakeDefault() *memguard.LockedBuffer { return nil }

// IsAllocated reports whether b still holds live plaintext.
func (Traits) IsAllocated(b *memguard.LockedBuffer) bool {
	return b != nil && b.IsAlive()
}

// Deleter wipes and unlocks a buffer.
type Deleter struct{}

// Delete destroys *b.
func (Deleter) Delete(b **memguard.LockedBuffer) error {
	(*b).Destroy()
	return nil
}

// Buffer is a guarded locked buffer.
type Buffer = resource.Unique[Traits, *memguard.LockedBuffer, Deleter]

// FromBytes moves src into a locked buffer. src is wiped.
func FromBytes(src []byte) (*Buffer, error) {
	if len(src) == 0 {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "empty secret")
	}
	return resource.New[Traits](memguard.NewBufferFromBytes(src), Deleter{})
}

// Random returns a locked buffer filled with size random bytes.
func Random(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, errors.New(errors.PhaseConstruct, errors.KindInvalidInput).
			Value(size).
			Detail("secret size must be positive, got %d", size).
			Build()
	}
	return resource.New[Traits](memguard.NewBufferRandom(size), Deleter{})
}

// Seal encrypts the buffer into an enclave. The plaintext is destroyed by
// sealing, so the guard is released rather than reset.
func Seal(b *Buffer) (*memguard.Enclave, error) {
	if !b.Allocated() {
		return nil, errors.InvalidInput(errors.PhaseMove, "sealing an unallocated buffer")
	}
	e := b.Get().Seal()
	b.Release()
	return e, nil
}

// Open decrypts an enclave into a new guarded buffer.
func Open(e *memguard.Enclave) (*Buffer, error) {
	lb, err := e.Open()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConstruct, errors.KindTransfer, err, "open enclave")
	}
	return resource.New[Traits](lb, Deleter{})
}
