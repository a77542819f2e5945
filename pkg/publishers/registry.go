package publishers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Builder creates a Publisher from a config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Registry maps publisher types to builders.
type Registry interface {
	Register(typ string, builder Builder)
	PublisherFor(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)
	Types() []string
}

type registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns a registry with optional pre-registered builders.
func NewRegistry(builders map[string]Builder) Registry {
	r := &registry{
		builders: make(map[string]Builder),
	}
	for typ, b := range builders {
		r.Register(typ, b)
	}
	return r
}

// Register associates a builder with a publisher type.
func (r *registry) Register(typ string, builder Builder) {
	if typ = strings.TrimSpace(strings.ToLower(typ)); typ == "" || builder == nil {
		return
	}

	r.mu.Lock()
	r.builders[typ] = builder
	r.mu.Unlock()
}

// PublisherFor builds the publisher for cfg. The config is normalized
// first, so entries built outside LoadRegistry get the same defaults.
func (r *registry) PublisherFor(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	cfg = cfg.normalized()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	builder, ok := r.builders[cfg.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("publisher %q: no builder registered for type %q", cfg.ID, cfg.Type)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	return builder(ctx, cfg, ensureLogger(log))
}

// Types lists the registered publisher types in sorted order.
func (r *registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.builders))
	for typ := range r.builders {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry knows every sink an order event can go to.
func DefaultRegistry() Registry {
	return NewRegistry(map[string]Builder{
		TypeHTTP:   newHTTPPublisher,
		TypeSQS:    newSQSPublisher,
		TypeSNS:    newSNSPublisher,
		TypePubSub: newPubSubPublisher,
	})
}

// BuildAll instantiates publishers for cfgs. If any build fails, the ones
// already built are closed and nothing is returned.
func BuildAll(ctx context.Context, reg Registry, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	if reg == nil || len(cfgs) == 0 {
		return nil, nil
	}

	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pub, err := reg.PublisherFor(ctx, cfg, log)
		if err != nil {
			if closeErr := NewFanout(pubs).Close(); closeErr != nil {
				err = errors.Join(err, closeErr)
			}
			return nil, fmt.Errorf("build publisher %q: %w", cfg.ID, err)
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}
