package layering

import (
	"fmt"
	"slices"
)

// SourceLevel identifies where an initial filter value came from. Higher
// levels override lower levels when layering.
type SourceLevel int

const (
	// SourceUnknown guards against misconfiguration so call sites can detect
	// missing metadata.
	SourceUnknown SourceLevel = iota
	// SourceDefaults represents the weakest layer (caller supplied defaults).
	SourceDefaults
	// SourceStorage represents the last-applied set restored from durable storage.
	SourceStorage
	// SourceQuery represents the strongest layer read from the address bar.
	SourceQuery
)

func (l SourceLevel) String() string {
	switch l {
	case SourceDefaults:
		return "defaults"
	case SourceStorage:
		return "storage"
	case SourceQuery:
		return "query"
	default:
		return "unknown"
	}
}

// ParseSourceLevel converts a string representation into the corresponding
// SourceLevel. Returns SourceUnknown for unrecognised values.
func ParseSourceLevel(value string) SourceLevel {
	switch value {
	case "defaults", "DEFAULTS":
		return SourceDefaults
	case "storage", "STORAGE":
		return SourceStorage
	case "query", "QUERY":
		return SourceQuery
	default:
		return SourceUnknown
	}
}

// Source names one snapshot within a layering chain.
type Source struct {
	Key   string      // storage key or screen identifier the layer belongs to
	Level SourceLevel // precedence category
}

// Identifier returns a stable slug suitable for logs and traces
// (e.g., "query/machines").
func (s Source) Identifier() string {
	return fmt.Sprintf("%s/%s", s.Level, s.Key)
}

// SourceChain describes the ordered layering sequence from strongest to weakest.
type SourceChain struct {
	ordered []Source
}

// NewSourceChain constructs a chain and deduplicates sources using their
// Identifier. Stronger levels always come first.
func NewSourceChain(sources ...Source) SourceChain {
	filtered := make([]Source, 0, len(sources))
	seen := map[string]struct{}{}

	for _, source := range sources {
		if source.Level == SourceUnknown {
			continue
		}
		id := source.Identifier()
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		filtered = append(filtered, source)
	}

	slices.SortStableFunc(filtered, func(a, b Source) int {
		if a.Level == b.Level {
			return 0
		}
		if a.Level > b.Level {
			return -1
		}
		return 1
	})

	return SourceChain{ordered: filtered}
}

// Ordered returns the layering sequence from strongest (index 0) to weakest.
func (c SourceChain) Ordered() []Source {
	out := make([]Source, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Strongest returns the first source in the chain (zero source if empty).
func (c SourceChain) Strongest() Source {
	if len(c.ordered) == 0 {
		return Source{}
	}
	return c.ordered[0]
}

// Weakest returns the final source in the chain (zero source if empty).
func (c SourceChain) Weakest() Source {
	if len(c.ordered) == 0 {
		return Source{}
	}
	return c.ordered[len(c.ordered)-1]
}
