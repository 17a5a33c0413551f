// Package resource provides exclusive-ownership guards for arbitrary
// resources.
//
// A guard binds a resource value (a descriptor, a pointer, an id, a lock
// token) to a deleter and guarantees the deleter runs at most once per
// allocated value, across ownership transfers, failed construction and
// failed transfers.
//
// # Guards
//
// Unique[T, R, D] owns a resource of type R reclaimed by a Deleter[R] of
// type D. T is a Traits[R] capability:
//
//	NoTraits[R]   - allocation tracked with a flag (alias Guard[R, D])
//	ZeroTraits[R] - the zero value is unallocated
//	custom traits - any type with MakeDefault and IsAllocated
//
// Typical use:
//
//	g, err := resource.New[fd.Traits](n, fd.Deleter{})
//	if err != nil {
//	    return err
//	}
//	defer g.Close()
//	...
//	return transfer(g.Move())
//
// # Lifecycle
//
//	Allocated() - resource still needs reclaiming
//	Release()   - disarm without running the deleter
//	Reset()     - run the deleter now
//	ResetTo(r)  - reclaim the current value and adopt r
//	Close()     - Reset, for defer and io.Closer
//
// # Ownership Transfer
//
// Guards are never copied. Move builds a new guard and leaves the source
// unallocated; MoveFrom reclaims the target first and then takes over the
// source; Swap exchanges two guards all-or-nothing.
//
// Values whose transfer can fail implement Copier. The guard orders every
// transfer so that a failure never leaves two owners of one resource and
// never leaks a resource it was handed: construction reclaims the argument,
// Move reclaims a moved value whose deleter could not follow it, Swap rolls
// back the half that already moved.
//
// # Stacks
//
// Stack owns many guards under integer handles and closes them in reverse
// push order:
//
//	err := resource.Run(func(s *resource.Stack) error {
//	    s.Push("config", cfgFile)
//	    s.Push("socket", conn)
//	    return work()
//	})
//
// Register observers to track stack lifecycle events:
//
//	s.Subscribe(observer) // receives EventPushed, EventDropped, EventDetached, EventFailed
package resource
