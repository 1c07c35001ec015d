// Package eval instantiates model trees from declarations. A Context
// carries the symbol tree, the lexical scope stack, the source registry,
// and the diagnostics sink across evaluations.
package eval

import (
	"github.com/ardnew/cadl/diag"
	"github.com/ardnew/cadl/log"
	"github.com/ardnew/cadl/sym"
	"github.com/ardnew/cadl/syntax"
	"github.com/ardnew/cadl/value"
)

// DefaultResolution is the tessellation quality assumed when neither an
// attribute nor an option overrides it.
const DefaultResolution = 32

// maxCallDepth bounds workbench recursion.
const maxCallDepth = 256

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the structured logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Context) { c.logger = logger }
}

// WithSink sets the diagnostics sink. Without it the Context allocates
// its own.
func WithSink(sink *diag.Sink) Option {
	return func(c *Context) { c.sink = sink }
}

// WithResolution sets the default tessellation resolution.
func WithResolution(res int) Option {
	return func(c *Context) {
		if res > 0 {
			c.resolution = res
		}
	}
}

// Context is the evaluation state. It is not safe for concurrent use;
// run concurrent evaluations with separate Contexts sharing a symbol
// tree.
type Context struct {
	root   *sym.Symbol
	sink   *diag.Sink
	logger log.Logger

	// files registers loaded sources by content hash, so diagnostics and
	// caching can refer back to the exact text evaluated.
	files map[uint64]*syntax.SourceFile

	resolution int

	frames []*frame
	depth  int

	// consts memoizes evaluated constant initializers. A nil entry marks
	// a constant currently being evaluated, which detects cycles.
	consts map[*sym.Symbol]*value.Value
}

// New creates a Context evaluating against the given symbol tree root.
func New(root *sym.Symbol, opts ...Option) *Context {
	c := &Context{
		root:       root,
		files:      make(map[uint64]*syntax.SourceFile),
		consts:     make(map[*sym.Symbol]*value.Value),
		resolution: DefaultResolution,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.sink == nil {
		c.sink = diag.NewSink()
	}

	return c
}

// Root returns the symbol tree root.
func (c *Context) Root() *sym.Symbol { return c.root }

// Sink returns the diagnostics sink.
func (c *Context) Sink() *diag.Sink { return c.sink }

// Load declares the file's definitions into the symbol tree and registers
// its source text. Bind use statements afterward with [Context.Bind].
func (c *Context) Load(file *syntax.SourceFile) {
	c.files[file.Hash] = file
	sym.Declare(c.root, file, c.sink)
}

// Bind resolves the use statements of every loaded file. Call once after
// all files are loaded.
func (c *Context) Bind() {
	for _, file := range c.files {
		sym.BindUses(c.root, c.root, file, c.sink)
	}
}

// Source returns the registered source file with the given content hash.
func (c *Context) Source(hash uint64) (*syntax.SourceFile, bool) {
	file, ok := c.files[hash]

	return file, ok
}

// frameKind discriminates what introduced a lexical scope.
type frameKind int

const (
	frameFile frameKind = iota
	frameWorkbench
	frameBody
)

// frame is one lexical scope. Name lookups walk frames innermost first,
// then fall through to the symbol tree.
type frame struct {
	kind   frameKind
	scope  *sym.Symbol
	values map[string]value.Value
	syms   map[string]*sym.Symbol

	// impure marks that an impure builtin was called in this scope;
	// models built while tainted bypass the render cache.
	impure bool
}

// push enters a new lexical scope rooted at the given symbol scope.
func (c *Context) push(kind frameKind, scope *sym.Symbol) *frame {
	f := &frame{
		kind:   kind,
		scope:  scope,
		values: make(map[string]value.Value),
		syms:   make(map[string]*sym.Symbol),
	}

	c.frames = append(c.frames, f)

	return f
}

func (c *Context) pop() {
	f := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]

	// Impurity flows outward: a tainted inner scope taints its caller.
	if f.impure && len(c.frames) > 0 {
		c.frames[len(c.frames)-1].impure = true
	}
}

func (c *Context) top() *frame {
	return c.frames[len(c.frames)-1]
}

// lookupValue finds a lexically bound value. Workbench frames are opaque:
// a workbench body does not see the caller's bindings, only file scope.
func (c *Context) lookupValue(name string) (value.Value, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		f := c.frames[i]

		if v, ok := f.values[name]; ok {
			return v, true
		}

		if f.kind == frameWorkbench {
			break
		}
	}

	return value.None(), false
}

// lookupSymbol finds a lexically bound symbol alias.
func (c *Context) lookupSymbol(name string) (*sym.Symbol, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		f := c.frames[i]

		if s, ok := f.syms[name]; ok {
			return s, true
		}

		if f.kind == frameWorkbench {
			break
		}
	}

	return nil, false
}

// scopeSymbol returns the symbol scope of the innermost frame, or the
// root when no frame is active.
func (c *Context) scopeSymbol() *sym.Symbol {
	if len(c.frames) == 0 {
		return c.root
	}

	return c.top().scope
}

// navigate resolves a qualified name: lexical aliases first for the head
// segment, then the symbol tree from the innermost scope.
func (c *Context) navigate(path []string) (*sym.Symbol, error) {
	if s, ok := c.lookupSymbol(path[0]); ok {
		if len(path) == 1 {
			return s.Deref(), nil
		}

		return s.Deref().Navigate(path[1:])
	}

	return c.scopeSymbol().Navigate(path)
}
