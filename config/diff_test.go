package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffEvent(t *testing.T) {
	t.Parallel()

	oldCfg := &Root{Bar: BarConfig{Separator: " | "}, Logging: LoggingConfig{Level: "info"}}
	newCfg := &Root{Bar: BarConfig{Separator: " / "}, Logging: LoggingConfig{Level: "info"}}

	evt := diffEvent(oldCfg, newCfg)
	assert.Equal(t, []string{"Bar"}, evt.ChangedKeys)
	assert.Equal(t, oldCfg, evt.OldConfig)
	assert.Equal(t, newCfg, evt.NewConfig)
}

func TestDiffEvent_NoChanges(t *testing.T) {
	t.Parallel()

	a := &Root{Logging: LoggingConfig{Level: "debug"}}
	b := &Root{Logging: LoggingConfig{Level: "debug"}}

	evt := diffEvent(a, b)
	assert.Empty(t, evt.ChangedKeys)
}

func TestDiffEvent_MultipleChanges(t *testing.T) {
	t.Parallel()

	oldCfg := &Root{}
	newCfg := &Root{
		Bar:     BarConfig{Separator: "-"},
		Logging: LoggingConfig{Level: "warn"},
	}

	evt := diffEvent(oldCfg, newCfg)
	assert.ElementsMatch(t, []string{"Bar", "Logging"}, evt.ChangedKeys)
}
