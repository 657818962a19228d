package layering

// MergeLayers composes filter snapshots ordered from strongest to weakest,
// returning a new map that keeps explicit values from stronger layers while
// filling any missing keys from weaker ones. Empty values never shadow a
// weaker layer and never appear in the result.
func MergeLayers(layers ...map[string]string) map[string]string {
	merged := map[string]string{}
	for i := len(layers) - 1; i >= 0; i-- {
		for key, value := range layers[i] {
			if value == "" {
				continue
			}
			merged[key] = value
		}
	}
	return merged
}

// Clone returns a detached copy of snapshot. A nil snapshot clones to nil.
func Clone(snapshot map[string]string) map[string]string {
	if snapshot == nil {
		return nil
	}
	out := make(map[string]string, len(snapshot))
	for key, value := range snapshot {
		out[key] = value
	}
	return out
}

// Restrict returns the subset of snapshot whose keys are listed in keys.
func Restrict(snapshot map[string]string, keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if value, ok := snapshot[key]; ok {
			out[key] = value
		}
	}
	return out
}
