package catalog

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
	"github.com/KirkDiggler/rpg-palette/internal/resolver"
)

// Descent limits for skill category sources
const (
	DefaultMaxDepth = 8
	DefaultMaxNodes = 1024
)

// Config holds the dependencies for the catalog service
type Config struct {
	Resolver     resolver.Resolver
	Runtime      host.Runtime
	World        resolver.ConfigReader
	ProbeTimeout time.Duration
	// MaxDepth bounds recursion into skill category sources
	MaxDepth int
	// MaxNodes bounds the number of values visited per source
	MaxNodes int
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Runtime == nil {
		vb.RequiredField("Runtime")
	}
	if c.World == nil {
		vb.RequiredField("World")
	}
	if c.MaxDepth < 0 {
		vb.Field("MaxDepth", "must not be negative")
	}
	if c.MaxNodes < 0 {
		vb.Field("MaxNodes", "must not be negative")
	}
	return vb.Build()
}

type service struct {
	resolver resolver.Resolver
	runtime  host.Runtime
	world    resolver.ConfigReader
	timeout  time.Duration
	maxDepth int
	maxNodes int
}

// New creates a catalog service with the given configuration
func New(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid catalog config")
	}

	s := &service{
		resolver: cfg.Resolver,
		runtime:  cfg.Runtime,
		world:    cfg.World,
		timeout:  cfg.ProbeTimeout,
		maxDepth: cfg.MaxDepth,
		maxNodes: cfg.MaxNodes,
	}
	if s.maxDepth == 0 {
		s.maxDepth = DefaultMaxDepth
	}
	if s.maxNodes == 0 {
		s.maxNodes = DefaultMaxNodes
	}
	return s, nil
}

func (s *service) TechniqueTypes(ctx context.Context) (*ListOutput, error) {
	res := s.resolver.Resolve(ctx, &resolver.Query{
		Methods:     techniqueQuery.methods,
		ConfigPaths: techniqueQuery.configPaths,
		Fallback:    FallbackTechniqueTypes,
		Options: normalize.Options{
			TranslationPrefix:   PrefixTechniques,
			StringIsTranslation: true,
		},
	})
	return &ListOutput{Entries: res.Entries, Source: res.Source}, nil
}

func (s *service) InventoryGroups(ctx context.Context) (*ListOutput, error) {
	res := s.resolver.Resolve(ctx, &resolver.Query{
		Methods:     inventoryQuery.methods,
		ConfigPaths: inventoryQuery.configPaths,
		Fallback:    FallbackInventoryGroups,
		Options:     normalize.Options{StringIsTranslation: true},
	})
	return &ListOutput{Entries: res.Entries, Source: res.Source}, nil
}

func (s *service) Rings(ctx context.Context, input *RingsInput) (*RingsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	q := &resolver.Query{
		Methods:     ringQuery.methods,
		ArgSets:     s.actorArgSets(input.Actor),
		ConfigPaths: ringQuery.configPaths,
		Fallback:    FallbackRings,
		Options: normalize.Options{
			TranslationPrefix:   PrefixRings,
			StringIsTranslation: true,
		},
	}
	if input.Actor != nil {
		q.ActorSection = input.Actor.Get(ringQuery.actorPath)
	}

	res := s.resolver.Resolve(ctx, q)
	rings := make([]entities.RingEntry, 0, len(res.Entries))
	for _, entry := range res.Entries {
		ring := entities.RingEntry{CanonicalEntry: entry}
		if input.Actor != nil {
			ring.Value = RingValue(input.Actor, entry.ActorKey)
			if ring.Value == "" && entry.ActorKey != entry.ID {
				ring.Value = RingValue(input.Actor, entry.ID)
			}
		}
		rings = append(rings, ring)
	}

	return &RingsOutput{Rings: rings, Source: res.Source}, nil
}

func (s *service) Attributes(ctx context.Context, input *AttributesInput) (*AttributesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	table, ok := attributeTables[input.Kind]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown attribute kind %q", input.Kind)
	}

	section := actorSection(input.Actor, table.actorPaths)
	res := s.resolver.Resolve(ctx, &resolver.Query{
		Methods:      table.methods,
		ArgSets:      s.actorArgSets(input.Actor),
		ConfigPaths:  table.configPaths,
		ActorSection: section,
		Options: normalize.Options{
			TranslationPrefix:   table.prefix,
			StringIsTranslation: true,
		},
	})

	return &AttributesOutput{
		Entries: res.Entries,
		Section: section,
		Source:  res.Source,
	}, nil
}

// actorArgSets are the helper argument sets for actor scoped lists: the
// actor receiver, then no arguments
func (s *service) actorArgSets(actor *entities.Actor) [][]host.Arg {
	if actor == nil {
		return [][]host.Arg{nil}
	}
	return [][]host.Arg{
		{host.ObjectArg(s.runtime.Actor(actor))},
		nil,
	}
}

// actorSection returns the first truthy section under the actor's system
// data, or Null
func actorSection(actor *entities.Actor, paths []string) value.Value {
	if actor == nil {
		return value.Null()
	}
	for _, path := range paths {
		if v := actor.Get(path); v.Truthy() {
			return v
		}
	}
	return value.Null()
}

// callHelper probes one helper method with each argument set and returns
// the first truthy result
func (s *service) callHelper(ctx context.Context, helpers host.Object, method string, argSets [][]host.Arg) (value.Value, bool) {
	fn, ok := host.Method(helpers, method)
	if !ok {
		return value.Null(), false
	}
	for _, args := range argSets {
		got, err := probe.Call(ctx, s.timeout, fn, args)
		if err != nil {
			slog.Debug("helper probe failed", "method", method, "error", err)
			continue
		}
		if got.Truthy() {
			return got, true
		}
	}
	return value.Null(), false
}
