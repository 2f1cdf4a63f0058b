package source

import (
	"context"
	"os"
	"strings"

	"github.com/barkit/barkit/config"
)

// EnvPrefix filters which environment variables are loaded.
const EnvPrefix = "BARKIT_"

// EnvSource loads configuration from BARKIT_-prefixed environment
// variables. The remainder of the name is lowercased and split on
// underscores into a nested path: BARKIT_BAR_SEPARATOR=" / " becomes
// {bar: {separator: " / "}}. Values stay strings; the binder converts
// types.
type EnvSource struct{}

func (e *EnvSource) Name() string { return "env" }

// Load never fails; malformed entries are skipped.
func (e *EnvSource) Load(ctx context.Context) (map[string]any, error) {
	result := make(map[string]any)

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}

		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		segments := strings.Split(key, "_")
		if len(segments) == 0 {
			continue
		}
		setNestedValue(result, segments, value)
	}
	return result, nil
}

// Watch is not supported; the environment is static for the process.
func (e *EnvSource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }

// setNestedValue walks segments into m, creating nested maps as needed.
// An existing leaf on the path wins; the conflicting entry is dropped.
func setNestedValue(m map[string]any, segments []string, value string) {
	current := m
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if i == len(segments)-1 {
			current[segment] = value
			return
		}
		if existing, ok := current[segment]; ok {
			nested, ok := existing.(map[string]any)
			if !ok {
				return
			}
			current = nested
			continue
		}
		nested := make(map[string]any)
		current[segment] = nested
		current = nested
	}
}
