package main

import (
	"context"
	"os"

	"github.com/barkit/barkit/bar"
	"github.com/barkit/barkit/config"
	"github.com/barkit/barkit/config/source"
	"github.com/barkit/barkit/event"
	"github.com/barkit/barkit/introspect"
	"github.com/barkit/barkit/logging"
	"github.com/barkit/barkit/modules"

	// Module types register themselves with the factory registry.
	_ "github.com/barkit/barkit/modules/counter"
	_ "github.com/barkit/barkit/modules/datetime"
)

func main() {
	// 1) config: file < env < cli
	dir := os.Getenv("BARKIT_CONFIG_DIR")
	if dir == "" {
		dir = "configs"
	}
	var cfg config.Root
	mgr, err := config.NewManager(&cfg, config.Options{},
		&source.FileSource{BasePath: dir, Profile: os.Getenv("BARKIT_PROFILE")},
		&source.EnvSource{},
		&source.CLISource{},
	)
	if err != nil {
		panic(err)
	}
	cfg.ApplyDefaults()

	// 2) logging
	logger := logging.New(cfg.Logging.Level)

	changes := make(chan config.Event, 4)
	mgr.Subscribe(changes)
	go func() {
		for evt := range changes {
			logger.Info("configuration changed", "keys", evt.ChangedKeys)
		}
	}()

	// 3) compose the bar
	bus := event.NewBus()
	mods := make([]bar.Module, 0, len(cfg.Modules))
	for _, mc := range cfg.Modules {
		m, err := modules.New(mc, modules.Deps{Logger: logger, Sink: bus})
		if err != nil {
			logger.Error("module setup failed", "module", mc.Name, "error", err)
			os.Exit(1)
		}
		mods = append(mods, m)
	}

	engine, err := bar.New(logger, bus, os.Stdout, cfg.Bar.Separator, mods...)
	if err != nil {
		logger.Error("bar setup failed", "error", err)
		os.Exit(1)
	}

	// 4) optional introspection server
	if cfg.Introspect.Enabled {
		srv := introspect.New(logger, engine, cfg.Introspect)
		srv.Start()
		defer func() {
			if err := srv.Stop(context.Background()); err != nil {
				logger.Error("introspection stop failed", "error", err)
			}
		}()
	}

	// 5) run
	if err := engine.Run(context.Background()); err != nil && err != context.Canceled {
		logger.Error("bar error", "error", err)
		os.Exit(1)
	}
}
