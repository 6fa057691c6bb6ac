package engineapi

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/ZenLiuCN/engineapi/logging"
	"github.com/ZenLiuCN/engineapi/memory"
	"github.com/ZenLiuCN/engineapi/native"
	"github.com/rs/zerolog"
)

type (
	// Host is the process the engine is bound to.
	Host interface {
		memory.Scanner
		native.Locator
		native.Invoker
	}
	// State is the initialization state of a Bootstrap.
	State int32
	// Option configures Initialize.
	Option func(*options)
	// Engine exposes every bound interface. It never changes once returned
	// and may be shared by any number of goroutines.
	Engine struct {
		client     *Client
		inputStack *InputStackSystem
		cvar       *Cvar
	}
	// Bootstrap builds an Engine at most once.
	Bootstrap struct {
		state  atomic.Int32
		engine *Engine
		err    error
	}
	method struct {
		Name  string
		Shape native.Shape
	}
	methods []method
	// iface is the part every binding shares: the receiver and where calls go.
	iface struct {
		this uintptr
		inv  native.Invoker
		fns  map[string]native.Func
	}
	options struct {
		catalog *Catalog
		log     zerolog.Logger
	}
	host struct {
		memory.Scanner
		native.Locator
		native.Invoker
	}
)

const (
	Uninitialized State = iota
	Initializing
	Ready
	Failed
)

// bindings lists the methods each interface binding requires.
var bindings = map[string]methods{
	KeyClient:     clientMethods,
	KeyInputStack: inputStackMethods,
	KeyCvar:       cvarMethods,
}

func (ms methods) index(name string) int {
	return slices.IndexFunc(ms, func(m method) bool { return m.Name == name })
}

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// This is the host address of the bound instance.
func (i iface) This() uintptr {
	return i.this
}

// Funcs lists the resolved functions by address.
func (i iface) Funcs() []native.Func {
	out := make([]native.Func, 0, len(i.fns))
	for _, f := range i.fns {
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b native.Func) int {
		switch {
		case a.Addr < b.Addr:
			return -1
		case a.Addr > b.Addr:
			return 1
		}
		return 0
	})
	return out
}

// WithCatalog replaces the compiled-in catalogue.
func WithCatalog(c *Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithLogger receives progress and failures of the initialization.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithLogConfig logs through a logger built from cfg, see logging.DefaultConfig
// for the in-process setup. The log file stays open for the life of the process.
// If it cannot be created the console is still used.
func WithLogConfig(cfg logging.Config) Option {
	return func(o *options) {
		l, _, err := logging.New(cfg)
		if err != nil {
			l.Warn().Err(err).Str("file", cfg.File).Msg("log file unavailable")
		}
		o.log = l
	}
}

// NewHost assembles a Host from its parts.
func NewHost(s memory.Scanner, l native.Locator, inv native.Invoker) Host {
	return host{Scanner: s, Locator: l, Invoker: inv}
}

// NewProcessHost is the Host of the current process.
func NewProcessHost() Host {
	p := native.Process()
	return NewHost(memory.Process(), p, p)
}

func (e *Engine) Client() *Client {
	return e.client
}

func (e *Engine) InputStackSystem() *InputStackSystem {
	return e.inputStack
}

func (e *Engine) Cvar() *Cvar {
	return e.cvar
}

// State reports the current state.
func (b *Bootstrap) State() State {
	return State(b.state.Load())
}

// Engine returns the engine once Ready, nil otherwise.
func (b *Bootstrap) Engine() *Engine {
	if b.State() != Ready {
		return nil
	}
	return b.engine
}

// Err returns why initialization failed, nil unless Failed.
func (b *Bootstrap) Err() error {
	if b.State() != Failed {
		return nil
	}
	return b.err
}

// Initialize locates every interface, scans every module and resolves every
// signature of the catalogue, then binds the interfaces.
//
// Only the first call does any work. A call made while it runs gets
// ErrAlreadyInitializing, any later call ErrAlreadyInitialized, whatever the
// outcome of the first. Nothing blocks or retries. On failure the first error
// is returned and no Engine exists.
func (b *Bootstrap) Initialize(h Host, opts ...Option) (e *Engine, err error) {
	if !b.state.CompareAndSwap(int32(Uninitialized), int32(Initializing)) {
		if b.State() == Initializing {
			return nil, ErrAlreadyInitializing
		}
		return nil, ErrAlreadyInitialized
	}
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.catalog == nil {
		o.catalog = DefaultCatalog()
	}
	if h == nil {
		h = NewProcessHost()
	}
	o.log = logging.WithComponent(o.log, "engine")
	defer func() {
		if r := recover(); r != nil {
			e, err = nil, fmt.Errorf("engine initialization panic: %v", r)
		}
		if err != nil {
			o.log.Error().Err(err).Msg("engine initialization failed")
			b.err = err
			b.state.Store(int32(Failed))
			return
		}
		b.engine = e
		b.state.Store(int32(Ready))
	}()
	e, err = build(h, o.catalog, o.log)
	return
}

func build(h Host, c *Catalog, log zerolog.Logger) (e *Engine, err error) {
	if err = c.Validate(); err != nil {
		return
	}
	this := make(map[string]uintptr, len(c.Interfaces))
	for _, is := range c.Interfaces {
		var p uintptr
		if p, err = h.Interface(is.Module, is.Version); err != nil {
			return
		}
		if p == 0 {
			err = &InterfaceNotFoundError{Module: is.Module, Version: is.Version}
			return
		}
		this[is.Key] = p
		log.Debug().Str("module", is.Module).Str("version", is.Version).
			Str("this", fmt.Sprintf("%#x", p)).Msg("interface located")
	}
	images := make(map[string]*memory.Image)
	for _, name := range c.Modules() {
		var img *memory.Image
		if img, err = h.Module(name); err != nil {
			return
		}
		if img == nil {
			err = &ModuleNotMappedError{Name: name}
			return
		}
		images[name] = img
		log.Debug().Str("module", name).Str("base", fmt.Sprintf("%#x", img.Base)).
			Uint64("size", uint64(img.Size)).Str("fingerprint", fmt.Sprintf("%016x", img.Fingerprint())).
			Msg("module scanned")
	}
	fns := make(map[string]map[string]native.Func, len(c.Interfaces))
	for _, s := range c.Signatures {
		img := images[c.ModuleOf(s)]
		ms := bindings[s.Interface]
		var f native.Func
		if f, err = Resolve(img, s, ms[ms.index(s.Method)].Shape); err != nil {
			return
		}
		if fns[s.Interface] == nil {
			fns[s.Interface] = make(map[string]native.Func)
		}
		fns[s.Interface][s.Method] = f
		log.Debug().Str("module", img.Name).Str("method", s.Method).
			Str("addr", fmt.Sprintf("%#x", f.Addr)).Str("offset", fmt.Sprintf("%#x", f.Addr-img.Base)).
			Msg("signature resolved")
	}
	bind := func(key string) iface {
		return iface{this: this[key], inv: h, fns: fns[key]}
	}
	e = &Engine{
		client:     newClient(bind(KeyClient)),
		inputStack: newInputStackSystem(bind(KeyInputStack)),
		cvar:       newCvar(bind(KeyCvar)),
	}
	log.Info().Int("interfaces", len(c.Interfaces)).Int("functions", len(c.Signatures)).Msg("engine ready")
	return
}
