package resource

// flagData tracks allocation with an explicit boolean.
type flagData[R any, D Deleter[R]] struct {
	res       R
	del       D
	allocated bool
}

func newFlagData[R any, D Deleter[R]](res R, del D, allocated bool) (*flagData[R, D], error) {
	r, d, err := construct(res, del, allocated)
	if err != nil {
		return nil, err
	}
	return &flagData[R, D]{res: r, del: d, allocated: allocated}, nil
}

func (s *flagData[R, D]) isAllocated() bool { return s.allocated }

func (s *flagData[R, D]) setDeallocated() { s.allocated = false }

func (s *flagData[R, D]) resource() *R { return &s.res }

func (s *flagData[R, D]) deleter() *D { return &s.del }

func (s *flagData[R, D]) assignResource(res R) {
	s.res = res
	s.allocated = true
}

func (s *flagData[R, D]) move() (data[R, D], error) {
	r, d, cleared, err := moveParts(&s.res, &s.del, s.allocated)
	if err != nil {
		if cleared {
			s.allocated = false
		}
		return nil, err
	}
	out := &flagData[R, D]{res: r, del: d, allocated: s.allocated}
	s.allocated = false
	return out, nil
}

func (s *flagData[R, D]) assign(other data[R, D]) error {
	that := other.(*flagData[R, D])
	if err := assignParts(&s.res, &s.del, that.res, that.del); err != nil {
		return err
	}
	s.allocated = that.allocated
	that.allocated = false
	return nil
}

func (s *flagData[R, D]) swap(other data[R, D]) error {
	that := other.(*flagData[R, D])
	if err := swapParts(&s.res, &that.res, &s.del, &that.del); err != nil {
		return err
	}
	s.allocated, that.allocated = that.allocated, s.allocated
	return nil
}
