package config

// mergeMaps recursively merges src into dst, src winning on conflicts.
// Nested maps merge key-wise; everything else is replaced wholesale.
func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		if mv, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				mergeMaps(existing, mv)
				continue
			}
		}
		dst[k] = v
	}
}
