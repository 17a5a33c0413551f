package resource

import "errors"

var errCopy = errors.New("copy refused")

// deleteLog records the resources a deleter was invoked on.
type deleteLog struct {
	ids  []int
	tags []string
}

func (l *deleteLog) intDeleter() DeleterFunc[int] {
	return func(r *int) error {
		l.ids = append(l.ids, *r)
		return nil
	}
}

func (l *deleteLog) count() int { return len(l.ids) }

// injector switches transfer failures on and off after construction.
type injector struct {
	failRes bool
	failDel bool
}

// flakyRes is a resource whose transfer fails on demand.
type flakyRes struct {
	inj *injector
	id  int
}

func (r flakyRes) Copy() (flakyRes, error) {
	if r.inj != nil && r.inj.failRes {
		return flakyRes{}, errCopy
	}
	return r, nil
}

// flakyTraits treats id 0 as unallocated.
type flakyTraits struct{}

func (flakyTraits) MakeDefault() flakyRes { return flakyRes{} }

func (flakyTraits) IsAllocated(r flakyRes) bool { return r.id != 0 }

// flakyDel deletes flakyRes values and fails to transfer on demand.
type flakyDel struct {
	log *deleteLog
	inj *injector
	tag string
}

func (d flakyDel) Copy() (flakyDel, error) {
	if d.inj != nil && d.inj.failDel {
		return flakyDel{}, errCopy
	}
	return d, nil
}

func (d flakyDel) Delete(r *flakyRes) error {
	d.log.ids = append(d.log.ids, r.id)
	return nil
}

// plainResDel is a failsafe deleter for flakyRes.
type plainResDel struct {
	log *deleteLog
	tag string
}

func (d plainResDel) Delete(r *flakyRes) error {
	d.log.ids = append(d.log.ids, r.id)
	return nil
}

// flakyIntDel deletes ints and fails to transfer on demand.
type flakyIntDel struct {
	log *deleteLog
	inj *injector
	tag string
}

func (d flakyIntDel) Copy() (flakyIntDel, error) {
	if d.inj != nil && d.inj.failDel {
		return flakyIntDel{}, errCopy
	}
	return d, nil
}

func (d flakyIntDel) Delete(r *int) error {
	d.log.ids = append(d.log.ids, *r)
	return nil
}

// taggedDel is a failsafe int deleter carrying an identity.
type taggedDel struct {
	log *deleteLog
	tag string
}

func (d taggedDel) Delete(r *int) error {
	d.log.ids = append(d.log.ids, *r)
	d.log.tags = append(d.log.tags, d.tag)
	return nil
}

// intTraits treats negative ints as unallocated.
type intTraits struct{}

func (intTraits) MakeDefault() int { return -1 }

func (intTraits) IsAllocated(r int) bool { return r >= 0 }
