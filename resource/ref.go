package resource

// Ref is a rebindable alias to an object owned elsewhere. A guard holding a
// Ref manages the referent's lifecycle (for example a lock or a pooled
// object) without copying it. Ref never owns the referent.
type Ref[T any] struct {
	p *T
}

// RefTo returns a Ref bound to p.
func RefTo[T any](p *T) Ref[T] {
	return Ref[T]{p: p}
}

// Get returns a copy of the referent.
func (r Ref[T]) Get() T {
	return *r.p
}

// Set assigns v through the reference, mutating the referent in place.
func (r Ref[T]) Set(v T) {
	*r.p = v
}

// Addr returns the referent's address.
func (r Ref[T]) Addr() *T {
	return r.p
}

// Valid reports whether the Ref is bound.
func (r Ref[T]) Valid() bool {
	return r.p != nil
}

// Rebind redirects the Ref to p.
func (r *Ref[T]) Rebind(p *T) {
	r.p = p
}

// RefTraits treats an unbound Ref as unallocated.
type RefTraits[T any] struct{}

// MakeDefault returns an unbound Ref.
func (RefTraits[T]) MakeDefault() Ref[T] { return Ref[T]{} }

// IsAllocated reports whether r is bound.
func (RefTraits[T]) IsAllocated(r Ref[T]) bool { return r.p != nil }
