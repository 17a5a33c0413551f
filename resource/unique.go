package resource

import (
	"go.uber.org/multierr"

	"github.com/wippyai/scope/errors"
)

// Unique exclusively owns a resource value and the deleter that reclaims it.
//
// The zero value is an unallocated guard holding T's default resource and a
// zero deleter. A guard must not be copied after first use; transfer
// ownership with Move, MoveFrom or Swap instead. Close (usually deferred)
// runs the deleter if the resource is still allocated.
//
// The traits parameter comes first so callers can name it while R and D are
// inferred from the constructor arguments:
//
//	fd, err := resource.New[fd.Traits](n, fd.Deleter{})
//
// Unique is not safe for concurrent use.
type Unique[T Traits[R], R any, D Deleter[R]] struct {
	_    noCopy
	data data[R, D]
}

// Guard is a Unique that tracks allocation with a flag.
type Guard[R any, D Deleter[R]] = Unique[NoTraits[R], R, D]

// New returns a guard owning res. With traits, the guard is allocated only
// if T classifies res as allocated; without traits it always is.
//
// If res or del cannot be transferred into the guard, del is run on the
// resource (when allocated) and the error is returned; no guard is produced.
func New[T Traits[R], R any, D Deleter[R]](res R, del D) (*Unique[T, R, D], error) {
	s, err := newData[T](res, del)
	if err != nil {
		return nil, err
	}
	return &Unique[T, R, D]{data: s}, nil
}

// NewGuard returns a flag-tracked guard owning res.
func NewGuard[R any, D Deleter[R]](res R, del D) (*Guard[R, D], error) {
	return New[NoTraits[R]](res, del)
}

// Wrap returns a guard owning res with a zero-valued deleter.
func Wrap[T Traits[R], D Deleter[R], R any](res R) (*Unique[T, R, D], error) {
	var del D
	return New[T](res, del)
}

// NewDefault returns an unallocated guard that holds the default resource
// and del, so a later ResetTo is reclaimed by del.
func NewDefault[T Traits[R], R any, D Deleter[R]](del D) (*Unique[T, R, D], error) {
	s, err := newDefaultData[T, R](del)
	if err != nil {
		return nil, err
	}
	return &Unique[T, R, D]{data: s}, nil
}

func (u *Unique[T, R, D]) storage() data[R, D] {
	if u.data == nil {
		u.data = emptyData[T, R, D]()
	}
	return u.data
}

// Allocated reports whether the resource must still be reclaimed.
func (u *Unique[T, R, D]) Allocated() bool {
	return u.storage().isAllocated()
}

// Get returns the stored resource.
func (u *Unique[T, R, D]) Get() R {
	return *u.storage().resource()
}

// Deleter returns the stored deleter.
func (u *Unique[T, R, D]) Deleter() D {
	return *u.storage().deleter()
}

// Release marks the resource unallocated without running the deleter.
func (u *Unique[T, R, D]) Release() {
	u.storage().setDeallocated()
}

// Reset runs the deleter on an allocated resource and marks it unallocated.
// If the deleter fails the guard stays allocated and the error is returned.
func (u *Unique[T, R, D]) Reset() error {
	s := u.storage()
	if !s.isAllocated() {
		return nil
	}
	if err := (*s.deleter()).Delete(s.resource()); err != nil {
		return errors.DeleteFailed(errors.PhaseReset, typeName[R](), err)
	}
	s.setDeallocated()
	return nil
}

// ResetTo reclaims the current resource and takes ownership of res.
//
// Ownership of res passes to the guard on entry: if the current resource
// cannot be reclaimed, or res cannot be transferred into the guard, the
// stored deleter is run on res (when res is allocated) before the error is
// returned.
func (u *Unique[T, R, D]) ResetTo(res R) error {
	err := u.Reset()
	if err == nil {
		var r R
		if r, err = transfer(res); err == nil {
			u.storage().assignResource(r)
			return nil
		}
		err = errors.TransferFailed(errors.PhaseReset, errors.PartResource, typeName[R](), err)
	}
	if valueAllocated[T](res) {
		err = multierr.Append(err, reclaim(errors.PhaseReset, *u.storage().deleter(), &res))
	}
	return err
}

// Close implements io.Closer by calling Reset. Deferring Close is the Go
// form of scope-bound cleanup.
func (u *Unique[T, R, D]) Close() error {
	return u.Reset()
}

// Move transfers ownership into a new guard and leaves u unallocated.
//
// If the deleter cannot be transferred after a plain move of the resource,
// u's deleter reclaims the resource and u is left unallocated. In every
// other failure u keeps what it owned.
func (u *Unique[T, R, D]) Move() (*Unique[T, R, D], error) {
	s, err := u.storage().move()
	if err != nil {
		return nil, err
	}
	return &Unique[T, R, D]{data: s}, nil
}

// MoveFrom reclaims u's resource, then takes ownership of everything that
// holds. On failure that is left intact and u stays unallocated.
func (u *Unique[T, R, D]) MoveFrom(that *Unique[T, R, D]) error {
	if u == that {
		return nil
	}
	if err := u.Reset(); err != nil {
		return err
	}
	return u.storage().assign(that.storage())
}

// Swap exchanges resources, deleters and allocation states. Either both
// guards change or neither does.
func (u *Unique[T, R, D]) Swap(that *Unique[T, R, D]) error {
	if u == that {
		return nil
	}
	return u.storage().swap(that.storage())
}

// Deref returns the value a pointer resource points to. It panics on a nil
// resource.
func Deref[T Traits[*E], E any, D Deleter[*E]](u *Unique[T, *E, D]) E {
	return *u.Get()
}

// noCopy may be embedded into structs which must not be copied after first
// use. It is picked up by the copylocks check of go vet.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
