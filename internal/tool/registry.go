// Package tool exposes the catalog as a fixed set of named tools.  A
// tool takes a JSON parameter object, decodes it strictly into the typed
// request of its operation and answers with an Envelope.
package tool

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/iliyamo/movie-catalog/internal/logging"
	"github.com/iliyamo/movie-catalog/internal/metrics"
	"github.com/iliyamo/movie-catalog/internal/service"
)

type handlerFunc func(ctx context.Context, raw []byte) (any, error)

// Tool is one registered operation.
type Tool struct {
	Descriptor
	call handlerFunc
}

// Registry holds the tools by name.  It is built once at startup and
// read concurrently afterwards.
type Registry struct {
	tools map[string]*Tool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds a tool whose parameters are decoded into Req.  The
// parameter list of the descriptor is derived from Req.
func Register[Req, Res any](r *Registry, name, description string, readOnly bool, fn func(context.Context, Req) (Res, error)) {
	if _, dup := r.tools[name]; dup {
		panic(fmt.Sprintf("tool %q registered twice", name))
	}
	r.tools[name] = &Tool{
		Descriptor: Descriptor{
			Name:        name,
			Description: description,
			ReadOnly:    readOnly,
			Params:      paramsOf(reflect.TypeFor[Req]()),
		},
		call: func(ctx context.Context, raw []byte) (any, error) {
			var req Req
			if err := decodeParams(raw, &req); err != nil {
				return nil, err
			}
			return fn(ctx, req)
		},
	}
}

// Lookup returns the named tool.
func (r *Registry) Lookup(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Descriptors lists every tool sorted by name.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.Descriptor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Call invokes the named tool.  It never panics and never returns a bare
// error: every outcome is an Envelope.
func (r *Registry) Call(ctx context.Context, name string, raw []byte) (env Envelope) {
	t, ok := r.tools[name]
	if !ok {
		return Fail(invalid("name", fmt.Sprintf("unknown tool %q", name)))
	}

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			logging.Error().Str("tool", name).Interface("panic", p).Msg("tool panicked")
			env = Fail(&service.Error{Kind: service.KindStorage, Message: "internal error"})
		}
		elapsed := time.Since(start)
		metrics.RecordToolCall(name, env.Outcome(), elapsed)
		ev := logging.Debug()
		if !env.Success && env.Kind == service.KindStorage {
			ev = logging.Warn()
		}
		ev.Str("tool", name).Str("outcome", env.Outcome()).Dur("elapsed", elapsed).Msg("tool call")
	}()

	data, err := t.call(ctx, raw)
	if err != nil {
		return Fail(err)
	}
	return OK(data)
}
