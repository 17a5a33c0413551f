// Package demo runs guard lifecycle scenarios against the real resources
// the scope packages wrap, recording every step for display.
package demo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/scope/internal/config"
	"github.com/wippyai/scope/resource"
)

// Step is one recorded action within a scenario.
type Step struct {
	Action string
	Detail string
	Err    error
}

// Report is the outcome of one scenario.
type Report struct {
	Scenario string
	Steps    []Step
	Err      error
	Duration time.Duration
}

// OK reports whether the scenario and its cleanup succeeded.
func (r Report) OK() bool {
	return r.Err == nil
}

// Scenario is a function driving guards on a stack. Cleanup of everything
// pushed on s happens after it returns.
type Scenario func(ctx context.Context, sc *Session) error

var (
	registry   = map[string]Scenario{}
	registryMu sync.RWMutex
)

// Register adds a scenario under name. It panics on duplicates.
func Register(name string, fn Scenario) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		panic("demo: duplicate scenario " + name)
	}
	registry[name] = fn
}

// Names returns the registered scenario names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(name string) (Scenario, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[name]
	return fn, ok
}

// Session is the per-scenario state handed to a Scenario.
type Session struct {
	Config *config.Config
	Stack  *resource.Stack
	Log    *zap.Logger
	steps  []Step
	notify func(Step)
}

// Own pushes o onto the session stack. If the stack refuses it, o is closed
// here and the push error is returned together with any close error.
func (s *Session) Own(label string, o resource.Owner) error {
	if _, err := s.Stack.Push(label, o); err != nil {
		if o != nil {
			err = multierr.Append(err, o.Close())
		}
		return err
	}
	return nil
}

// Record appends a step.
func (s *Session) Record(action, format string, args ...any) {
	s.add(Step{Action: action, Detail: fmt.Sprintf(format, args...)})
}

// Fail appends a failed step and returns err.
func (s *Session) Fail(action string, err error) error {
	s.add(Step{Action: action, Err: err})
	return err
}

// Expect records an error that the scenario provoked on purpose. It returns
// an error if err is nil.
func (s *Session) Expect(action string, err error) error {
	if err == nil {
		return s.Fail(action, fmt.Errorf("%s: expected an error", action))
	}
	s.add(Step{Action: action, Detail: "refused: " + err.Error()})
	return nil
}

func (s *Session) add(st Step) {
	s.steps = append(s.steps, st)
	s.Log.Debug("step",
		zap.String("action", st.Action),
		zap.String("detail", st.Detail),
		zap.Error(st.Err))
	if s.notify != nil {
		s.notify(st)
	}
}

// Runner executes scenarios.
type Runner struct {
	cfg       *config.Config
	log       *zap.Logger
	observers []resource.Observer
	onStep    func(scenario string, st Step)
}

// NewRunner creates a runner. Observers are subscribed to every scenario
// stack.
func NewRunner(cfg *config.Config, log *zap.Logger, observers ...resource.Observer) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, log: log, observers: observers}
}

// OnStep registers a callback invoked as each step is recorded.
func (r *Runner) OnStep(fn func(scenario string, st Step)) {
	r.onStep = fn
}

// Run executes one scenario. The scenario's stack is closed before Run
// returns and cleanup failures are part of the report.
func (r *Runner) Run(ctx context.Context, name string) Report {
	rep := Report{Scenario: name}
	fn, ok := lookup(name)
	if !ok {
		rep.Err = fmt.Errorf("unknown scenario %q", name)
		return rep
	}

	log := r.log.With(zap.String("scenario", name))
	sess := &Session{Config: r.cfg, Log: log}
	if r.onStep != nil {
		sess.notify = func(st Step) { r.onStep(name, st) }
	}

	start := time.Now()
	rep.Err = resource.Run(func(s *resource.Stack) error {
		sess.Stack = s
		for _, o := range r.observers {
			s.Subscribe(o)
		}
		return fn(ctx, sess)
	})
	rep.Duration = time.Since(start)
	rep.Steps = sess.steps

	if rep.Err != nil {
		log.Warn("scenario failed", zap.Error(rep.Err))
	} else {
		log.Info("scenario finished",
			zap.Int("steps", len(rep.Steps)),
			zap.Duration("duration", rep.Duration))
	}
	return rep
}

// RunAll executes the configured scenarios in order.
func (r *Runner) RunAll(ctx context.Context) []Report {
	reports := make([]Report, 0, len(r.cfg.Scenarios))
	for _, name := range r.cfg.Scenarios {
		if err := ctx.Err(); err != nil {
			reports = append(reports, Report{Scenario: name, Err: err})
			continue
		}
		reports = append(reports, r.Run(ctx, name))
	}
	return reports
}
