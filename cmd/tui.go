package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/galx/internal/album"
	"github.com/desertthunder/galx/internal/archive"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/desertthunder/galx/internal/tasks"
	"github.com/desertthunder/galx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive gallery browser on one folder.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := shared.ExpandPath(r.config.Log.File)
	if logPath == "" {
		logPath = "./tmp/galx-tui.log"
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	api, err := r.client(ctx)
	if err != nil {
		return err
	}

	var sink tasks.ArchiveSink
	if s, closeSink, err := archive.Open(ctx, r.config.Archive); err != nil {
		r.logger.Warn("downloads disabled", "error", err)
	} else {
		sink = s
		defer closeSink()
	}

	journal, closeJournal := r.journal()
	defer closeJournal()

	model := ui.NewModel(ctx, ui.Deps{
		API:      api,
		Folder:   cmd.String("folder"),
		Unlocked: r.config.Access.Unlocked,
		Sink:     sink,
		Journal:  journal,
		Unlocker: album.BrowserUnlocker{BaseURL: r.config.Server.BaseURL, Open: shared.OpenBrowser},
		Logger:   r.logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
