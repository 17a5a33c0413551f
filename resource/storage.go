package resource

// data is the storage behind a guard. The implementation is picked once per
// guard from its traits type: flagData when the traits are NoTraits,
// traitsData otherwise. Two guards of the same type always share the same
// implementation, so move, assign and swap may assert the concrete type.
type data[R any, D Deleter[R]] interface {
	isAllocated() bool
	setDeallocated()
	resource() *R
	deleter() *D
	// assignResource stores res after the previous value has been reclaimed.
	assignResource(res R)
	// move transfers ownership into new storage and leaves the receiver
	// unallocated.
	move() (data[R, D], error)
	// assign transfers ownership of that into the unallocated receiver.
	assign(that data[R, D]) error
	swap(that data[R, D]) error
}

type flagTracker interface {
	flagTracked()
}

func usesFlag[T Traits[R], R any]() bool {
	var t T
	_, ok := any(t).(flagTracker)
	return ok
}

// valueAllocated classifies a raw resource value.
func valueAllocated[T Traits[R], R any](res R) bool {
	if usesFlag[T, R]() {
		return true
	}
	var t T
	return t.IsAllocated(res)
}

func defaultResource[T Traits[R], R any]() R {
	var t T
	return t.MakeDefault()
}

func emptyData[T Traits[R], R any, D Deleter[R]]() data[R, D] {
	var del D
	if usesFlag[T, R]() {
		return &flagData[R, D]{res: defaultResource[T, R](), del: del}
	}
	return &traitsData[T, R, D]{res: defaultResource[T, R](), del: del}
}

func newData[T Traits[R], R any, D Deleter[R]](res R, del D) (data[R, D], error) {
	if usesFlag[T, R]() {
		s, err := newFlagData(res, del, true)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := newTraitsData[T](res, del)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// newDefaultData builds unallocated storage that already holds del.
func newDefaultData[T Traits[R], R any, D Deleter[R]](del D) (data[R, D], error) {
	if usesFlag[T, R]() {
		s, err := newFlagData(defaultResource[T, R](), del, false)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := newTraitsData[T](defaultResource[T, R](), del)
	if err != nil {
		return nil, err
	}
	return s, nil
}
