package resource

import "io"

// Deleter reclaims an allocated resource. Delete receives a pointer to the
// resource value stored in the guard.
type Deleter[R any] interface {
	Delete(res *R) error
}

// DeleterFunc adapts an ordinary function to the Deleter interface.
// A nil DeleterFunc does nothing.
type DeleterFunc[R any] func(res *R) error

// Delete implements Deleter.
func (f DeleterFunc[R]) Delete(res *R) error {
	if f == nil {
		return nil
	}
	return f(res)
}

// Traits describes a resource type with a distinguished unallocated value.
//
// MakeDefault returns that value and IsAllocated reports whether a value
// must be passed to the deleter. Neither may panic, and
// IsAllocated(MakeDefault()) must be false. Guards instantiated with a
// Traits type other than NoTraits derive their allocation state from the
// stored value and carry no separate flag.
type Traits[R any] interface {
	MakeDefault() R
	IsAllocated(res R) bool
}

// NoTraits is the null capability. Guards using it track allocation with an
// explicit flag, and every value they are constructed with counts as
// allocated.
type NoTraits[R any] struct{}

// MakeDefault returns the zero value of R.
func (NoTraits[R]) MakeDefault() R {
	var zero R
	return zero
}

// IsAllocated always reports true: without traits nothing about the value
// itself says it is unallocated.
func (NoTraits[R]) IsAllocated(R) bool { return true }

func (NoTraits[R]) flagTracked() {}

// ZeroTraits treats the zero value of R as the unallocated value. It fits
// pointers, interfaces, and integer handles where 0 is never issued.
type ZeroTraits[R comparable] struct{}

// MakeDefault returns the zero value of R.
func (ZeroTraits[R]) MakeDefault() R {
	var zero R
	return zero
}

// IsAllocated reports whether res differs from the zero value.
func (ZeroTraits[R]) IsAllocated(res R) bool {
	var zero R
	return res != zero
}

// Copier is implemented by resource and deleter values whose transfer to a
// new owner can fail. Values that do not implement it are transferred by
// plain assignment, which never fails. Copy must leave the receiver intact
// and must be declared on the value type (or T must itself be a pointer).
type Copier[T any] interface {
	Copy() (T, error)
}

// Closer is a deleter for io.Closer resources.
type Closer[C io.Closer] struct{}

// Delete closes the resource.
func (Closer[C]) Delete(c *C) error {
	return (*c).Close()
}

// Handle is an opaque reference to a guard owned by a Stack.
// Handle 0 is reserved and always invalid.
type Handle uint32

// EventType identifies a Stack lifecycle notification.
type EventType uint8

const (
	EventPushed EventType = iota
	EventDropped
	EventDetached
	EventFailed
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventPushed:
		return "pushed"
	case EventDropped:
		return "dropped"
	case EventDetached:
		return "detached"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event represents a Stack lifecycle event.
type Event struct {
	Err       error
	Label     string
	Handle    Handle
	Type      EventType
	Allocated bool
}

// Observer receives notifications about Stack lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Owner is the type-erased view of a guard. Every *Unique implements it.
type Owner interface {
	Allocated() bool
	Release()
	Close() error
}

var (
	_ Owner     = (*Unique[NoTraits[int], int, DeleterFunc[int]])(nil)
	_ io.Closer = (*Unique[NoTraits[int], int, DeleterFunc[int]])(nil)
)
