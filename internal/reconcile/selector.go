package reconcile

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoResult is returned, wrapped, whenever a reconciliation produced
// nothing: either an attribute had no candidate values or the curator
// dismissed a prompt. Callers resume their curation loop on it.
var ErrNoResult = errors.New("reconciliation produced no result")

// ErrNoData reports that no candidate had a value for an attribute.
var ErrNoData = fmt.Errorf("%w: no candidate values", ErrNoResult)

// ErrCancelled is returned by a Selector when the curator dismisses a prompt.
var ErrCancelled = fmt.Errorf("%w: cancelled", ErrNoResult)

// ErrNotMergeable reports a merge request without exactly one existing
// registry release or without any other candidate.
var ErrNotMergeable = errors.New("merge needs exactly one registry release and at least one other candidate")

// Option is one choice offered to the curator.
type Option struct {
	Label  string
	Detail string
}

// Selector asks the curator to pick one option. It returns the index of the
// chosen option, or ErrCancelled when the prompt is dismissed. It blocks
// until the curator answers.
type Selector interface {
	SelectOne(ctx context.Context, title string, options []Option) (int, error)
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(ctx context.Context, title string, options []Option) (int, error)

// SelectOne calls f.
func (f SelectorFunc) SelectOne(ctx context.Context, title string, options []Option) (int, error) {
	return f(ctx, title, options)
}

// Resolver maps an external artist URL to a registry identifier. The second
// return value is false when the URL is not known to the registry.
type Resolver interface {
	ResolveIdentifier(ctx context.Context, url string) (string, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, url string) (string, bool)

// ResolveIdentifier calls f.
func (f ResolverFunc) ResolveIdentifier(ctx context.Context, url string) (string, bool) {
	return f(ctx, url)
}

// noResolver resolves nothing.
type noResolver struct{}

func (noResolver) ResolveIdentifier(context.Context, string) (string, bool) { return "", false }
