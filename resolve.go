package filters

import (
	"encoding/json"

	"github.com/goliatone/go-filters/layering"
)

// ResolveInitialFilters computes the starting FilterSet of a screen. The
// address bar wins over durable storage: durable keys are only consulted when
// urlParams holds no non-empty value. Defaults fill whatever remains.
// Callers restrict urlParams and durable to schema keys beforehand.
func ResolveInitialFilters(urlParams, durable, defaults FilterSet) FilterSet {
	return ResolveWithTrace("", urlParams, durable, defaults).Filters
}

// Layer pairs a source with the snapshot it contributed.
type Layer struct {
	Source   layering.Source
	Snapshot FilterSet
}

// Resolution is the outcome of initial filter resolution with provenance.
type Resolution struct {
	Filters FilterSet
	Layers  []Layer
}

// ResolveWithTrace resolves like ResolveInitialFilters and keeps the layers
// that took part so each key can be traced back to its source.
func ResolveWithTrace(namespace string, urlParams, durable, defaults FilterSet) Resolution {
	snapshots := map[layering.SourceLevel]FilterSet{
		layering.SourceDefaults: defaults.Normalize(),
	}
	sources := []layering.Source{{Key: namespace, Level: layering.SourceDefaults}}

	if urlParams.Active() {
		snapshots[layering.SourceQuery] = urlParams.Normalize()
		sources = append(sources, layering.Source{Key: namespace, Level: layering.SourceQuery})
	} else if durable.Active() {
		snapshots[layering.SourceStorage] = durable.Normalize()
		sources = append(sources, layering.Source{Key: namespace, Level: layering.SourceStorage})
	}

	chain := layering.NewSourceChain(sources...)
	ordered := chain.Ordered()
	layers := make([]Layer, len(ordered))
	merged := make([]map[string]string, len(ordered))
	for i, source := range ordered {
		layers[i] = Layer{Source: source, Snapshot: snapshots[source.Level]}
		merged[i] = snapshots[source.Level]
	}

	return Resolution{
		Filters: FilterSet(layering.MergeLayers(merged...)),
		Layers:  layers,
	}
}

// Source returns the level that supplied key, or SourceUnknown when the key
// is not part of the resolved set.
func (r Resolution) Source(key string) layering.SourceLevel {
	for _, layer := range r.Layers {
		if layer.Snapshot[key] != "" {
			return layer.Source.Level
		}
	}
	return layering.SourceUnknown
}

// Trace reports how every layer contributed to key, strongest first.
func (r Resolution) Trace(key string) Trace {
	trace := Trace{Key: key, Layers: make([]Provenance, 0, len(r.Layers))}
	for _, layer := range r.Layers {
		value, found := layer.Snapshot[key]
		trace.Layers = append(trace.Layers, Provenance{
			Source: layer.Source.Level.String(),
			Value:  value,
			Found:  found && value != "",
		})
	}
	return trace
}

// Trace captures provenance information for one key across the layers that
// produced the initial value.
type Trace struct {
	Key    string       `json:"key"`
	Layers []Provenance `json:"layers"`
}

// Provenance details how a specific source contributed to a traced key.
type Provenance struct {
	Source string `json:"source"`
	Value  string `json:"value,omitempty"`
	Found  bool   `json:"found"`
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
