package entities

// UnionDistinct merges values into current with set semantics: current is kept
// untouched (existing duplicates included), then values not already present are
// appended in the order given. Mirrors the store's add-to-set behavior.
func UnionDistinct(current, values []string) []string {
	seen := make(map[string]struct{}, len(current)+len(values))
	result := make([]string, 0, len(current)+len(values))

	for _, v := range current {
		seen[v] = struct{}{}
		result = append(result, v)
	}

	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

// PullAll removes every occurrence of every listed value from current,
// preserving the order of the remaining elements.
func PullAll(current, values []string) []string {
	remove := make(map[string]struct{}, len(values))
	for _, v := range values {
		remove[v] = struct{}{}
	}

	result := make([]string, 0, len(current))
	for _, v := range current {
		if _, ok := remove[v]; ok {
			continue
		}
		result = append(result, v)
	}

	return result
}
