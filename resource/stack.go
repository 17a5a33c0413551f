package resource

import (
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/scope/errors"
)

// ErrClosed is returned by Push after the Stack has been closed.
var ErrClosed = errors.Closed(errors.PhaseStack, "stack")

// Stack owns a set of guards and closes them in reverse push order, the
// order in which stack-scoped objects are destroyed. It gives a function
// that acquires several resources a single deferred Close.
//
// Stack is safe for concurrent use; the guards it owns are not, and must not
// be used directly while the Stack may close them.
type Stack struct {
	entries   []entry
	freeList  []Handle
	order     []Handle
	observers []Observer
	obsMu     sync.RWMutex
	mu        sync.Mutex
	closed    bool
}

type entry struct {
	owner Owner
	label string
	valid bool
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{
		entries:  make([]entry, 0, 16),
		freeList: make([]Handle, 0, 4),
		order:    make([]Handle, 0, 16),
	}
}

// Run creates a Stack, passes it to fn and closes it afterwards. The error
// from fn and any cleanup failures are combined.
func Run(fn func(*Stack) error) (err error) {
	s := NewStack()
	defer func() {
		err = multierr.Append(err, s.Close())
	}()
	return fn(s)
}

// Push transfers ownership of o to the stack and returns its handle. On
// error the caller still owns o and must close it.
func (s *Stack) Push(label string, o Owner) (Handle, error) {
	if o == nil {
		return 0, errors.InvalidInput(errors.PhaseStack, "nil owner")
	}
	// Once o is visible to Close it may be closed concurrently.
	allocated := o.Allocated()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, ErrClosed
	}

	e := entry{owner: o, label: label, valid: true}
	var handle Handle
	if len(s.freeList) > 0 {
		handle = s.freeList[len(s.freeList)-1]
		s.freeList = s.freeList[:len(s.freeList)-1]
		s.entries[handle-1] = e
	} else {
		s.entries = append(s.entries, e)
		handle = Handle(len(s.entries))
	}
	s.order = append(s.order, handle)
	s.mu.Unlock()

	s.notify(Event{
		Type:      EventPushed,
		Handle:    handle,
		Label:     label,
		Allocated: allocated,
	})
	return handle, nil
}

// Get retrieves a guard by handle.
func (s *Stack) Get(handle Handle) (Owner, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(handle)
	if !ok {
		return nil, false
	}
	return e.owner, true
}

// Drop removes a guard from the stack and closes it now. The guard is
// removed even if closing fails.
func (s *Stack) Drop(handle Handle) error {
	s.mu.Lock()
	e, ok := s.remove(handle)
	s.mu.Unlock()
	if !ok {
		return errors.NotFound(errors.PhaseStack, "handle", handle)
	}
	return s.closeEntry(handle, e)
}

// Detach removes a guard from the stack without closing it. Ownership
// returns to the caller.
func (s *Stack) Detach(handle Handle) (Owner, bool) {
	s.mu.Lock()
	e, ok := s.remove(handle)
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	s.notify(Event{
		Type:      EventDetached,
		Handle:    handle,
		Label:     e.label,
		Allocated: e.owner.Allocated(),
	})
	return e.owner, true
}

// Len returns the number of guards owned by the stack.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Each iterates over owned guards in push order until fn returns false.
// It walks a snapshot taken on entry, so fn may call back into the stack.
func (s *Stack) Each(fn func(Handle, string, Owner) bool) {
	type item struct {
		handle Handle
		entry  entry
	}

	s.mu.Lock()
	items := make([]item, len(s.order))
	for i, h := range s.order {
		items[i] = item{handle: h, entry: s.entries[h-1]}
	}
	s.mu.Unlock()

	for _, it := range items {
		if !fn(it.handle, it.entry.label, it.entry.owner) {
			break
		}
	}
}

// Subscribe adds an observer for lifecycle events.
func (s *Stack) Subscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, o)
}

// Unsubscribe removes an observer.
func (s *Stack) Unsubscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	for i, obs := range s.observers {
		if obs == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Close closes every owned guard, most recently pushed first, and stops
// accepting new ones. All cleanup failures are returned together.
func (s *Stack) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true

	handles := s.order
	pending := make([]entry, len(handles))
	for i, h := range handles {
		pending[i] = s.entries[h-1]
	}
	s.entries = nil
	s.freeList = nil
	s.order = nil
	s.mu.Unlock()

	var err error
	for i := len(pending) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.closeEntry(handles[i], pending[i]))
	}
	return err
}

func (s *Stack) closeEntry(handle Handle, e entry) error {
	allocated := e.owner.Allocated()
	if err := e.owner.Close(); err != nil {
		Logger().Warn("closing guard failed",
			zap.Uint32("handle", uint32(handle)),
			zap.String("label", e.label),
			zap.Error(err))
		err = errors.Wrap(errors.PhaseStack, errors.KindDelete, err, e.label)
		s.notify(Event{
			Type:      EventFailed,
			Handle:    handle,
			Label:     e.label,
			Allocated: e.owner.Allocated(),
			Err:       err,
		})
		return err
	}

	s.notify(Event{
		Type:      EventDropped,
		Handle:    handle,
		Label:     e.label,
		Allocated: allocated,
	})
	return nil
}

func (s *Stack) lookup(handle Handle) (*entry, bool) {
	if handle == 0 || int(handle) > len(s.entries) {
		return nil, false
	}
	e := &s.entries[handle-1]
	if !e.valid {
		return nil, false
	}
	return e, true
}

func (s *Stack) remove(handle Handle) (entry, bool) {
	e, ok := s.lookup(handle)
	if !ok {
		return entry{}, false
	}
	out := *e
	*e = entry{}
	s.freeList = append(s.freeList, handle)
	for i, h := range s.order {
		if h == handle {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return out, true
}

func (s *Stack) notify(e Event) {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	for _, o := range s.observers {
		o.OnResourceEvent(e)
	}
}
