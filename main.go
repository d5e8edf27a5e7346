package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"

	"dragline/internal/config"
	"dragline/internal/document"
	"dragline/internal/engine"
	"dragline/internal/eventbus"
	"dragline/internal/ui"
)

func main() {
	var configPath string
	var paginated bool
	flag.StringVar(&configPath, "config", "", "Path to the config file")
	flag.BoolVar(&paginated, "paginated", false, "Start with pagination enabled")
	flag.Parse()

	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"dragline.log"}
	logCfg.ErrorOutputPaths = []string{"dragline.log"}
	logger, err := logCfg.Build()
	if err != nil {
		fmt.Printf("Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	bus := eventbus.New(logger)

	configSvc := config.NewConfigService()
	cfg := loadOrCreateConfig(configSvc, configPath, logger)
	if paginated {
		cfg.Pagination.Enabled = true
	}

	doc := sampleDocument(bus)

	eng := engine.New(engine.Options{
		Doc:    doc,
		Bus:    bus,
		Config: cfg,
		Logger: logger,
	})
	defer eng.Close()
	eng.SetSurface(ui.SurfaceRect(doc))

	zone.NewGlobal()
	defer zone.Close()

	model := ui.NewModel(eng, doc, cfg)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)

	go func() {
		<-sigChan
		p.Quit()
	}()

	logger.Info("starting UI")
	if _, err := p.Run(); err != nil {
		logger.Error("program failed", zap.Error(err))
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	logger.Info("UI exited normally")
}

// loadOrCreateConfig loads the config from the given path (or the default
// location) and falls back to defaults when none exists yet.
func loadOrCreateConfig(svc config.ConfigService, path string, logger *zap.Logger) *config.Config {
	if path != "" {
		if cfg, err := svc.LoadFromPath(path); err == nil {
			logger.Info("loaded config", zap.String("path", path))
			return cfg
		}
		logger.Warn("could not load config, using defaults", zap.String("path", path))
		return config.DefaultConfig()
	}

	cfg, err := svc.Load()
	if err != nil {
		logger.Warn("could not load config, using defaults", zap.Error(err))
		return config.DefaultConfig()
	}
	return cfg
}

// sampleDocument builds the demo document. One document unit is one
// terminal row; blocks sit to the right of the indicator gutter.
func sampleDocument(bus eventbus.EventBus) *document.MemoryDocument {
	doc := document.NewMemory(bus,
		document.WithSurface(ui.GutterWidth, ui.DocWidth-ui.GutterWidth),
		document.WithSpacing(1),
	)
	doc.AddBlock("heading", "Trip notes", 1)
	doc.AddBlock("paragraph", "Pack the camera bag the night before.", 2)
	doc.AddBlock("list", "Charge batteries", 1)
	doc.AddBlock("list", "Empty memory cards", 1)
	doc.AddBlock("quote", "The best camera is the one you have.", 2)
	doc.AddBlock("paragraph", "Check the forecast before leaving.", 2)
	doc.AddBlock("heading", "Routes", 1)
	doc.AddBlock("paragraph", "Coastal loop, then the ridge trail.", 2)
	return doc
}
