package guest

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/scope/resource"
)

// ModuleCloser closes an instantiated module.
type ModuleCloser struct {
	ctx context.Context
}

// Delete closes *m.
func (c ModuleCloser) Delete(m *api.Module) error {
	return (*m).Close(orBackground(c.ctx))
}

// Module is a guarded module instance.
type Module = resource.Unique[resource.ZeroTraits[api.Module], api.Module, ModuleCloser]

// Instantiate compiles and instantiates wasm in r and guards the instance.
func Instantiate(ctx context.Context, r wazero.Runtime, wasm []byte, cfg wazero.ModuleConfig) (*Module, error) {
	if cfg == nil {
		cfg = wazero.NewModuleConfig()
	}
	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		return nil, err
	}
	// The instance keeps what it needs; the compiled form is not reused.
	defer compiled.Close(ctx)

	mod, err := r.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		return nil, err
	}
	return resource.New[resource.ZeroTraits[api.Module]](mod, ModuleCloser{ctx: ctx})
}

// RuntimeCloser closes a runtime and every module in it.
type RuntimeCloser struct {
	ctx context.Context
}

// Delete closes *r.
func (c RuntimeCloser) Delete(r *wazero.Runtime) error {
	return (*r).Close(orBackground(c.ctx))
}

// Runtime is a guarded wazero runtime.
type Runtime = resource.Unique[resource.ZeroTraits[wazero.Runtime], wazero.Runtime, RuntimeCloser]

// NewRuntime creates an interpreter runtime under a guard.
func NewRuntime(ctx context.Context) (*Runtime, error) {
	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	return resource.New[resource.ZeroTraits[wazero.Runtime]](r, RuntimeCloser{ctx: ctx})
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
