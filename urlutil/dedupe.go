package urlutil

// Dedupe returns entries with duplicates removed, preserving first-seen
// order. The input slice is not modified.
func Dedupe(entries []string) []string {
	if len(entries) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(entries))
	unique := make([]string, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		unique = append(unique, entry)
	}
	return unique
}
