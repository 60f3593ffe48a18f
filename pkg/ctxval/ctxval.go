// Package ctxval attaches a mutable, request-scoped value bag to a context.
// Deep layers annotate the request; the HTTP access log reads it back.
package ctxval

import (
	"context"
	"sort"
	"sync"
)

func Wrap(ctx context.Context) context.Context {
	if _, ok := getBag(ctx); ok {
		// already wrapped
		return ctx
	}
	return context.WithValue(ctx, defKey, &bag{values: map[any]any{}})
}

func Set[K comparable, V any](ctx context.Context, k K, v V) {
	b, ok := getBag(ctx)
	if !ok {
		return
	}
	b.m.Lock()
	defer b.m.Unlock()
	b.values[k] = v
}

func Get[K comparable, V any](ctx context.Context, k K) (V, bool) {
	b, ok := getBag(ctx)
	if !ok {
		return *new(V), false
	}
	b.m.RLock()
	defer b.m.RUnlock()
	v, ok := b.values[k].(V)
	return v, ok
}

// Annotation keys are plain strings so they can be logged as-is.
type Annotation string

// Annotate is Set with a loggable key.
func Annotate(ctx context.Context, key Annotation, value any) {
	Set(ctx, key, value)
}

// Annotations returns every Annotation as alternating key/value pairs,
// ordered by key.
func Annotations(ctx context.Context) []any {
	b, ok := getBag(ctx)
	if !ok {
		return nil
	}
	b.m.RLock()
	defer b.m.RUnlock()

	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		if a, ok := k.(Annotation); ok {
			keys = append(keys, string(a))
		}
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, b.values[Annotation(k)])
	}
	return args
}

type ctxKey struct{}

var defKey = ctxKey{}

type bag struct {
	m      sync.RWMutex
	values map[any]any
}

func getBag(ctx context.Context) (*bag, bool) {
	b, ok := ctx.Value(defKey).(*bag)
	return b, ok
}
