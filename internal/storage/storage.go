package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/giftery-client/internal/domain"
)

// Package storage provides the local order journal.

// Store remembers placed orders by external id so a repeated request does
// not buy the same certificate twice.
type Store interface {
	Close() error
	LookupOrder(externalID string) (domain.PlacedOrder, bool, error)
	RecordOrder(order domain.PlacedOrder) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	OrderTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultOrderTTL        = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.OrderTTL <= 0 {
		opts.OrderTTL = defaultOrderTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error { return nil }
func (noopStore) LookupOrder(string) (domain.PlacedOrder, bool, error) {
	return domain.PlacedOrder{}, false, nil
}
func (noopStore) RecordOrder(domain.PlacedOrder) error { return nil }
