package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"storefront/cmd/shop/storefront"
	"storefront/cmd/shop/ui"
	"storefront/internal/config"
	"storefront/internal/logging"
)

// runInteractive starts the terminal storefront.
func runInteractive() error {
	a := newApp(cfg)
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logging options follow config edits while the UI runs.
	if w, err := config.Watch(ctx, cfgFile, reloadLogging); err != nil {
		logging.ConfigWarn("Config watcher unavailable: %v", err)
	} else {
		defer w.Stop()
	}

	model := storefront.New(storefront.Deps{
		Pager:             a.pager(),
		Reviews:           a.reviewFeed(),
		Cart:              a.cart,
		Checkout:          a.checkout,
		Styles:            ui.NewStyles(ui.ThemeFor(cfg.UI.Theme)),
		LoadMoreThreshold: cfg.Catalog.LoadMoreThreshold,
		RequestTimeout:    cfg.GetAPITimeout(),
	})
	defer model.Shutdown()

	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	logging.UI("Starting interactive storefront against %s", cfg.API.BaseURL)
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("storefront UI failed: %w", err)
	}
	return nil
}

// reloadLogging applies logging options from a reloaded config file. Flags
// given on the command line still win over the file.
func reloadLogging(c *config.Config) {
	applyFlagOverrides(c)
	logging.Configure(c.Logging.Options())
	logging.Config("Reloaded logging options from %s", cfgFile)
}
