package resource

// NewChecked returns a guard for resources whose invalid value is only known
// at run time. If res equals invalid the guard is unallocated and holds the
// default resource; either way it keeps del for later resets.
//
//	n, _ := unix.Open(path, unix.O_RDONLY, 0)
//	f, err := resource.NewCheckedGuard(n, -1, fd.Deleter{})
func NewChecked[T Traits[R], R comparable, D Deleter[R]](res, invalid R, del D) (*Unique[T, R, D], error) {
	if res == invalid {
		return NewDefault[T, R](del)
	}
	return New[T](res, del)
}

// NewCheckedGuard is NewChecked for flag-tracked guards.
func NewCheckedGuard[R comparable, D Deleter[R]](res, invalid R, del D) (*Guard[R, D], error) {
	return NewChecked[NoTraits[R]](res, invalid, del)
}
