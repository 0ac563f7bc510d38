// Package resolver produces canonical entry lists from whichever source the
// host happens to offer: helper methods, world config, actor data or a
// built-in fallback.
package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/normalize"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/probe"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// Source names where a result came from
type Source string

// Result sources
const (
	SourceHelper   Source = "helper"
	SourceConfig   Source = "config"
	SourceActor    Source = "actor"
	SourceFallback Source = "fallback"
	SourceNone     Source = "none"
)

// ConfigReader reads the host system's config tree
type ConfigReader interface {
	Config(path string) value.Value
}

// Query describes one list lookup
type Query struct {
	// Methods are helper names tried in order
	Methods []string
	// ArgSets are tried for every method. Empty means a single call with no
	// arguments.
	ArgSets [][]host.Arg
	// ConfigPaths are dotted paths under the system config root
	ConfigPaths []string
	// ActorSection is consulted by key when truthy
	ActorSection value.Value
	// Fallback is returned when nothing else yields entries
	Fallback []entities.CanonicalEntry
	// Options are passed to the entry normalizer
	Options normalize.Options
}

// Result is a resolved list and where it came from
type Result struct {
	Entries []entities.CanonicalEntry
	Source  Source
	// Method is the helper that produced the entries
	Method string
	// Path is the config path that produced the entries
	Path string
}

// Empty reports whether the result holds no entries
func (r *Result) Empty() bool {
	return r == nil || len(r.Entries) == 0
}

// Resolver resolves entry lists
type Resolver interface {
	// Resolve never fails. Host problems are logged and the next source
	// is tried.
	Resolve(ctx context.Context, q *Query) *Result
}

// Config holds the dependencies for the resolver
type Config struct {
	Runtime      host.Runtime
	World        ConfigReader
	ProbeTimeout time.Duration
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Runtime == nil {
		vb.RequiredField("Runtime")
	}
	if c.World == nil {
		vb.RequiredField("World")
	}
	if c.ProbeTimeout < 0 {
		vb.Field("ProbeTimeout", "must not be negative")
	}
	return vb.Build()
}

type resolver struct {
	runtime host.Runtime
	world   ConfigReader
	timeout time.Duration
}

// New creates a resolver with the given configuration
func New(cfg *Config) (Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid resolver config")
	}

	return &resolver{
		runtime: cfg.Runtime,
		world:   cfg.World,
		timeout: cfg.ProbeTimeout,
	}, nil
}

func (r *resolver) Resolve(ctx context.Context, q *Query) *Result {
	if q == nil {
		return &Result{Source: SourceNone}
	}

	if res := r.fromHelpers(ctx, q); res != nil {
		return res
	}

	for _, path := range q.ConfigPaths {
		entries := normalize.Entries(r.world.Config(path), q.Options)
		if len(entries) > 0 {
			return &Result{Entries: entries, Source: SourceConfig, Path: path}
		}
	}

	if q.ActorSection.Truthy() {
		if entries := normalize.KeyEntries(q.ActorSection, q.Options); len(entries) > 0 {
			return &Result{Entries: entries, Source: SourceActor}
		}
	}

	if entries := normalize.Dedupe(q.Fallback); len(entries) > 0 {
		return &Result{Entries: entries, Source: SourceFallback}
	}

	return &Result{Source: SourceNone}
}

func (r *resolver) fromHelpers(ctx context.Context, q *Query) *Result {
	if len(q.Methods) == 0 {
		return nil
	}
	helpers, ok := r.runtime.Helpers()
	if !ok {
		return nil
	}

	argSets := q.ArgSets
	if len(argSets) == 0 {
		argSets = [][]host.Arg{nil}
	}

	for _, method := range q.Methods {
		fn, ok := host.Method(helpers, method)
		if !ok {
			continue
		}
		for _, args := range argSets {
			got, err := probe.Call(ctx, r.timeout, fn, args)
			if err != nil {
				slog.Debug("helper probe failed", "method", method, "error", err)
				continue
			}
			if entries := normalize.Entries(got, q.Options); len(entries) > 0 {
				return &Result{Entries: entries, Source: SourceHelper, Method: method}
			}
		}
	}
	return nil
}
