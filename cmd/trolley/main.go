package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trolleyhk/trolley/config"
	"github.com/trolleyhk/trolley/internal/adapter/catalog"
	"github.com/trolleyhk/trolley/internal/core/port"
	"github.com/trolleyhk/trolley/internal/core/search"
	"github.com/trolleyhk/trolley/internal/ui"
	"github.com/trolleyhk/trolley/pkg/sigctx"
)

const (
	backendREST      = "rest"
	backendFirestore = "firestore"
)

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()

	initLogger(cfg.Catalog.LogFile, cfg.LogLevel)

	mode := parseSearchMode(cfg.Catalog.SearchMode)

	source, closeSource := createCatalogSource(sigCtx, cfg)
	defer closeSource()

	program := tea.NewProgram(
		ui.NewModel(source, mode),
		tea.WithAltScreen(),
		tea.WithContext(sigCtx),
	)
	if _, err := program.Run(); err != nil {
		die("main.run", err)
	}
}

// initLogger sends logs to the configured file, or drops them when no
// file is set. The terminal belongs to the program view.
func initLogger(logFile string, level slog.Leveler) {
	const op = "main.initLogger"

	var w io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(
			logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644,
		)
		if err != nil {
			die(op, err)
		}
		w = f
	}

	opts := &slog.HandlerOptions{Level: level}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, opts)))
}

func parseSearchMode(v string) search.Mode {
	const op = "main.parseSearchMode"

	mode, err := search.ParseMode(v)
	if err != nil {
		die(op, err)
	}
	return mode
}

func createCatalogSource(
	ctx context.Context, cfg config.Config,
) (port.CatalogSource, func()) {
	const op = "main.createCatalogSource"

	switch cfg.Catalog.Backend {
	case backendREST, "":
		return catalog.NewRESTCatalog(cfg.Catalog.RESTBaseURL), func() {}

	case backendFirestore:
		fc, err := catalog.NewFirestoreCatalog(
			ctx,
			cfg.Catalog.FirestoreProjectID,
			cfg.Catalog.FirestoreCredentialsFile,
		)
		if err != nil {
			die(op, err)
		}
		return fc, func() { _ = fc.Close() }

	default:
		die(op, fmt.Errorf("unknown catalog backend %q", cfg.Catalog.Backend))
		return nil, nil
	}
}

func die(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
