package resource

// traitsData derives allocation from the stored value through T. The
// unallocated state is always represented by T.MakeDefault().
type traitsData[T Traits[R], R any, D Deleter[R]] struct {
	res R
	del D
}

func newTraitsData[T Traits[R], R any, D Deleter[R]](res R, del D) (*traitsData[T, R, D], error) {
	var t T
	r, d, err := construct(res, del, t.IsAllocated(res))
	if err != nil {
		return nil, err
	}
	return &traitsData[T, R, D]{res: r, del: d}, nil
}

func (s *traitsData[T, R, D]) isAllocated() bool {
	var t T
	return t.IsAllocated(s.res)
}

func (s *traitsData[T, R, D]) setDeallocated() {
	var t T
	s.res = t.MakeDefault()
}

func (s *traitsData[T, R, D]) resource() *R { return &s.res }

func (s *traitsData[T, R, D]) deleter() *D { return &s.del }

func (s *traitsData[T, R, D]) assignResource(res R) { s.res = res }

func (s *traitsData[T, R, D]) move() (data[R, D], error) {
	r, d, cleared, err := moveParts(&s.res, &s.del, s.isAllocated())
	if err != nil {
		if cleared {
			s.setDeallocated()
		}
		return nil, err
	}
	out := &traitsData[T, R, D]{res: r, del: d}
	s.setDeallocated()
	return out, nil
}

func (s *traitsData[T, R, D]) assign(other data[R, D]) error {
	that := other.(*traitsData[T, R, D])
	if err := assignParts(&s.res, &s.del, that.res, that.del); err != nil {
		return err
	}
	that.setDeallocated()
	return nil
}

func (s *traitsData[T, R, D]) swap(other data[R, D]) error {
	that := other.(*traitsData[T, R, D])
	return swapParts(&s.res, &that.res, &s.del, &that.del)
}
