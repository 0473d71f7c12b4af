package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MegaGrindStone/go-mockmcp"
	"github.com/MegaGrindStone/go-mockmcp/internal/config"
	"github.com/MegaGrindStone/go-mockmcp/internal/datagen"
	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
	"github.com/MegaGrindStone/go-mockmcp/servers/calendar"
	"github.com/MegaGrindStone/go-mockmcp/servers/flights"
	"github.com/MegaGrindStone/go-mockmcp/servers/places"
	"github.com/MegaGrindStone/go-mockmcp/servers/shelters"
	"github.com/MegaGrindStone/go-mockmcp/servers/trains"
	"github.com/MegaGrindStone/go-mockmcp/servers/weather"
)

// domain wires one dataset-backed server into the CLI: its conventional
// backing file, its default missing-file policy, and typed entry points for
// serving, validating, and generating its dataset.
type domain struct {
	name        string
	datasetFile string
	// fallback is the default missing-file policy: true means an absent
	// backing file yields an empty dataset instead of a not-found failure.
	fallback bool

	toolSet  func(path string, fallback bool, log *mockmcp.LogStream) *mockmcp.ToolSet
	check    func(name string, bs []byte) error
	generate func(ctx context.Context, path string, g *datagen.Generator) error
}

var domains = []domain{
	{
		name:        "calendar",
		datasetFile: calendar.DatasetName,
		toolSet: func(path string, fallback bool, log *mockmcp.LogStream) *mockmcp.ToolSet {
			return calendar.NewServer(calendar.NewStore(path, fallback), calendar.WithLogStream(log)).ToolSet()
		},
		check: func(name string, bs []byte) error {
			_, err := dataset.Decode[calendar.Document](name, bs)
			return err
		},
		generate: func(ctx context.Context, path string, g *datagen.Generator) error {
			return calendar.NewStore(path, false).Save(ctx, g.Calendar(12))
		},
	},
	{
		name:        "places",
		datasetFile: places.DatasetName,
		fallback:    true,
		toolSet: func(path string, fallback bool, log *mockmcp.LogStream) *mockmcp.ToolSet {
			return places.NewServer(places.NewStore(path, fallback), places.WithLogStream(log)).ToolSet()
		},
		check: func(name string, bs []byte) error {
			_, err := dataset.Decode[places.Document](name, bs)
			return err
		},
		generate: func(ctx context.Context, path string, g *datagen.Generator) error {
			return places.NewStore(path, false).Save(ctx, g.Places(15))
		},
	},
	{
		name:        "flights",
		datasetFile: flights.DatasetName,
		fallback:    true,
		toolSet: func(path string, fallback bool, log *mockmcp.LogStream) *mockmcp.ToolSet {
			return flights.NewServer(flights.NewStore(path, fallback), flights.WithLogStream(log)).ToolSet()
		},
		check: func(name string, bs []byte) error {
			_, err := dataset.Decode[flights.Document](name, bs)
			return err
		},
		generate: func(ctx context.Context, path string, g *datagen.Generator) error {
			return flights.NewStore(path, false).Save(ctx, g.Flights(10, 5, 8))
		},
	},
	{
		name:        "trains",
		datasetFile: trains.DatasetName,
		toolSet: func(path string, fallback bool, log *mockmcp.LogStream) *mockmcp.ToolSet {
			return trains.NewServer(trains.NewStore(path, fallback), trains.WithLogStream(log)).ToolSet()
		},
		check: func(name string, bs []byte) error {
			_, err := dataset.Decode[trains.Document](name, bs)
			return err
		},
		generate: func(ctx context.Context, path string, g *datagen.Generator) error {
			return trains.NewStore(path, false).Save(ctx, g.Trains(6))
		},
	},
	{
		name:        "shelters",
		datasetFile: shelters.DatasetName,
		fallback:    true,
		toolSet: func(path string, fallback bool, log *mockmcp.LogStream) *mockmcp.ToolSet {
			return shelters.NewServer(shelters.NewStore(path, fallback), shelters.WithLogStream(log)).ToolSet()
		},
		check: func(name string, bs []byte) error {
			_, err := dataset.Decode[shelters.Document](name, bs)
			return err
		},
		generate: func(ctx context.Context, path string, g *datagen.Generator) error {
			return shelters.NewStore(path, false).Save(ctx, g.Shelters(8))
		},
	},
	{
		name:        "weather",
		datasetFile: weather.DatasetName,
		toolSet: func(path string, fallback bool, log *mockmcp.LogStream) *mockmcp.ToolSet {
			return weather.NewServer(weather.NewStore(path, fallback), weather.WithLogStream(log)).ToolSet()
		},
		check: func(name string, bs []byte) error {
			_, err := dataset.Decode[weather.Document](name, bs)
			return err
		},
		generate: func(ctx context.Context, path string, g *datagen.Generator) error {
			return weather.NewStore(path, false).Save(ctx, g.Weather(6))
		},
	},
}

// resolveDomains maps the requested server names to their domain entries.
// No names selects every domain.
func resolveDomains(names []string) ([]domain, error) {
	if len(names) == 0 {
		return domains, nil
	}

	known := make(map[string]domain, len(domains))
	for _, d := range domains {
		known[d.name] = d
	}

	selected := make([]domain, 0, len(names))
	for _, name := range names {
		d, ok := known[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown server %q, known servers: %s", name, domainNames())
		}
		selected = append(selected, d)
	}
	return selected, nil
}

func domainNames() string {
	names := make([]string, 0, len(domains))
	for _, d := range domains {
		names = append(names, d.name)
	}
	return strings.Join(names, ", ")
}

// datasetPath resolves the backing file for a domain: the configured
// override or the conventional name, relative paths joined onto data_dir.
func datasetPath(cfg config.Config, d domain) string {
	file := d.datasetFile
	if override := cfg.Servers[d.name].Dataset; override != "" {
		file = override
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(cfg.DataDir, file)
}

// fallbackPolicy resolves the effective missing-file policy for a domain.
func fallbackPolicy(cfg config.Config, d domain) bool {
	switch cfg.Servers[d.name].OnMissing {
	case "fail":
		return false
	case "empty":
		return true
	}
	return d.fallback
}

// buildToolSet merges the selected domains' tools and applies the
// configured allow and deny patterns.
func buildToolSet(cfg config.Config, selected []domain, log *mockmcp.LogStream) (*mockmcp.ToolSet, error) {
	merged := mockmcp.NewToolSet()
	for _, d := range selected {
		ts := d.toolSet(datasetPath(cfg, d), fallbackPolicy(cfg, d), log)
		if err := merged.Add(ts); err != nil {
			return nil, fmt.Errorf("failed to merge %s tools: %w", d.name, err)
		}
	}

	filtered, err := merged.Filter(cfg.Tools.Allow, cfg.Tools.Deny)
	if err != nil {
		return nil, fmt.Errorf("failed to filter tools: %w", err)
	}
	return filtered, nil
}
