package render

import (
	"context"
	"log/slog"

	"github.com/ardnew/cadl/diag"
	"github.com/ardnew/cadl/log"
	"github.com/ardnew/cadl/model"
)

// DefaultResolution is used when neither the renderer nor the model
// specifies tessellation quality.
const DefaultResolution = 32

var (
	// ErrMixedDimensions indicates 2D and 3D geometry combined under one
	// node.
	ErrMixedDimensions = diag.NewError(
		"cannot combine 2d and 3d geometry")

	// ErrUnrenderable indicates a model node that cannot produce
	// geometry, such as a stray children marker.
	ErrUnrenderable = diag.NewError("model node is not renderable")

	// ErrUnknownOperation indicates an operation name the renderer does
	// not implement.
	ErrUnknownOperation = diag.NewError("unknown model operation")
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the structured logger.
func WithLogger(logger log.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// WithSink sets the diagnostics sink.
func WithSink(sink *diag.Sink) Option {
	return func(r *Renderer) { r.sink = sink }
}

// WithCache sets the geometry cache. Without one, every render
// recomputes.
func WithCache(cache *Cache) Option {
	return func(r *Renderer) { r.cache = cache }
}

// WithResolution sets the default tessellation resolution.
func WithResolution(res int) Option {
	return func(r *Renderer) {
		if res > 0 {
			r.resolution = res
		}
	}
}

// Renderer materializes model trees through a kernel.
type Renderer struct {
	kernel     Kernel
	cache      *Cache
	sink       *diag.Sink
	logger     log.Logger
	resolution int
}

// New creates a Renderer over the given kernel.
func New(kernel Kernel, opts ...Option) *Renderer {
	r := &Renderer{
		kernel:     kernel,
		resolution: DefaultResolution,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.sink == nil {
		r.sink = diag.NewSink()
	}

	return r
}

// Sink returns the diagnostics sink.
func (r *Renderer) Sink() *diag.Sink { return r.sink }

// Render materializes one model tree. Dimensionality conflicts yield
// OutputInvalid geometry with a diagnostic rather than an error; errors
// are reserved for kernel failures and cancellation.
func (r *Renderer) Render(
	ctx context.Context,
	m *model.Model,
) (Geometry, error) {
	return r.render(ctx, m, r.resolution)
}

func (r *Renderer) render(
	ctx context.Context,
	m *model.Model,
	resolution int,
) (Geometry, error) {
	if err := ctx.Err(); err != nil {
		return Geometry{}, err
	}

	if m.Resolution > 0 {
		resolution = m.Resolution
	}

	var key uint64

	cacheable := m.Pure && r.cache != nil

	if cacheable {
		key = hashModel(m, resolution)

		if g, ok := r.cache.Get(key); ok {
			return g, nil
		}
	}

	g, err := r.materialize(ctx, m, resolution)
	if err != nil {
		return Geometry{}, err
	}

	if cacheable && g.Kind != OutputInvalid {
		r.cache.Put(key, g)
	}

	r.logger.TraceContext(ctx, "rendered",
		slog.String("model", m.Name()),
		slog.String("output", g.Kind.String()),
		slog.Int("resolution", resolution),
	)

	return g, nil
}

func (r *Renderer) materialize(
	ctx context.Context,
	m *model.Model,
	resolution int,
) (Geometry, error) {
	switch m.Origin.Kind {
	case model.OriginPrimitive:
		return r.kernel.Primitive(m.Origin.Primitive, m.Origin.Args, resolution)

	case model.OriginTransform:
		g, err := r.renderMerged(ctx, m, resolution)
		if err != nil || g.Kind == OutputInvalid {
			return g, err
		}

		return g.ApplyMatrix(m.Origin.Matrix), nil

	case model.OriginOperation:
		return r.renderOperation(ctx, m, resolution)

	case model.OriginGroup, model.OriginWorkbench:
		return r.renderMerged(ctx, m, resolution)

	default:
		return Geometry{}, ErrUnrenderable.With(
			slog.String("origin", m.Origin.Kind.String()),
		)
	}
}

// renderMerged renders all children and concatenates their geometry.
func (r *Renderer) renderMerged(
	ctx context.Context,
	m *model.Model,
	resolution int,
) (Geometry, error) {
	gs, err := r.renderChildren(ctx, m, resolution)
	if err != nil {
		return Geometry{}, err
	}

	merged := Merge(gs...)
	if merged.Kind == OutputInvalid {
		r.recordMixed(m)
	}

	return merged, nil
}

// renderOperation combines children left to right: the first child is
// the base, the rest are modifiers. Complement is difference with the
// roles reversed.
func (r *Renderer) renderOperation(
	ctx context.Context,
	m *model.Model,
	resolution int,
) (Geometry, error) {
	gs, err := r.renderChildren(ctx, m, resolution)
	if err != nil {
		return Geometry{}, err
	}

	if len(gs) == 0 {
		return Geometry{Kind: OutputNone}, nil
	}

	if !sameKind(gs) {
		r.recordMixed(m)

		return Geometry{Kind: OutputInvalid}, nil
	}

	if len(gs) == 1 {
		return gs[0], nil
	}

	switch m.Origin.Operation {
	case "union":
		return r.kernel.Union(gs)

	case "difference":
		return r.kernel.Difference(gs[0], gs[1:])

	case "intersection":
		return r.kernel.Intersection(gs)

	case "complement":
		base, err := r.kernel.Union(gs[1:])
		if err != nil {
			return Geometry{}, err
		}

		return r.kernel.Difference(base, gs[:1])

	case "hull":
		return r.kernel.Hull(gs)

	default:
		return Geometry{}, ErrUnknownOperation.With(
			slog.String("operation", m.Origin.Operation),
		)
	}
}

func (r *Renderer) renderChildren(
	ctx context.Context,
	m *model.Model,
	resolution int,
) ([]Geometry, error) {
	gs := make([]Geometry, 0, len(m.Children))

	for _, child := range m.Children {
		g, err := r.render(ctx, child, resolution)
		if err != nil {
			return nil, err
		}

		if g.Kind == OutputNone {
			continue
		}

		gs = append(gs, g)
	}

	return gs, nil
}

func sameKind(gs []Geometry) bool {
	for i := 1; i < len(gs); i++ {
		if gs[i].Kind != gs[0].Kind {
			return false
		}
	}

	return true
}

func (r *Renderer) recordMixed(m *model.Model) {
	r.sink.Record(diag.SeverityError, diag.SrcRef{},
		ErrMixedDimensions.With(slog.String("model", m.Name())))
}
