package activity

import (
	"sort"
	"strings"
	"time"
)

const (
	VerbFiltersChanged = "filters.changed"
	VerbFiltersReset   = "filters.reset"
	VerbPresetSaved    = "filters.preset.saved"
	VerbPresetDeleted  = "filters.preset.deleted"
	VerbPresetApplied  = "filters.preset.applied"
)

// FilterEventInput describes the common fields for filter lifecycle events.
type FilterEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	StorageKey string
	PresetID   string
	PresetName string
	Filters    map[string]string
	Previous   map[string]string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildFiltersChangedEvent describes a mutation of the live filter set.
func BuildFiltersChangedEvent(input FilterEventInput) Event {
	return buildFilterEvent(VerbFiltersChanged, "filters", input)
}

// BuildFiltersResetEvent describes a reset back to defaults.
func BuildFiltersResetEvent(input FilterEventInput) Event {
	return buildFilterEvent(VerbFiltersReset, "filters", input)
}

// BuildPresetSavedEvent describes a new named preset.
func BuildPresetSavedEvent(input FilterEventInput) Event {
	return buildFilterEvent(VerbPresetSaved, "filters.preset", input)
}

// BuildPresetDeletedEvent describes a removed preset.
func BuildPresetDeletedEvent(input FilterEventInput) Event {
	return buildFilterEvent(VerbPresetDeleted, "filters.preset", input)
}

// BuildPresetAppliedEvent describes a preset handed back to the caller.
func BuildPresetAppliedEvent(input FilterEventInput) Event {
	return buildFilterEvent(VerbPresetApplied, "filters.preset", input)
}

func buildFilterEvent(verb, objectType string, input FilterEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.StorageKey != "" {
		metadata = ensureMetadata(metadata)
		metadata["storage_key"] = input.StorageKey
	}
	if input.PresetName != "" {
		metadata = ensureMetadata(metadata)
		metadata["preset_name"] = input.PresetName
	}
	if input.Filters != nil {
		metadata = ensureMetadata(metadata)
		metadata["filters"] = cloneStrings(input.Filters)
		metadata["active_count"] = len(input.Filters)
	}
	if input.Previous != nil {
		metadata = ensureMetadata(metadata)
		metadata["changed_keys"] = changedKeys(input.Previous, input.Filters)
	}

	objectID := strings.TrimSpace(input.PresetID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.StorageKey)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

// changedKeys lists keys whose value differs between before and after, sorted.
func changedKeys(before, after map[string]string) []string {
	seen := map[string]struct{}{}
	for key, value := range before {
		if after[key] != value {
			seen[key] = struct{}{}
		}
	}
	for key, value := range after {
		if before[key] != value {
			seen[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func cloneStrings(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
