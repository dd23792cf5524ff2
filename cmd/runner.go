package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/galx/internal/repositories"
	"github.com/desertthunder/galx/internal/services"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	pinned     bool
	gallery    services.Gallery
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A non-nil Config is used as is and the --config flag is ignored. A non-nil Gallery replaces the HTTP client.
type RunnerOpts struct {
	Config  *shared.Config
	Gallery services.Gallery
	Logger  *log.Logger
	Output  io.Writer
	Input   io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	pinned := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config:     opts.Config,
		configPath: "config.toml",
		pinned:     pinned,
		gallery:    opts.Gallery,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, folderCommand, albumCommand, photosCommand, journalCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. to move output to a file while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// loadConfig runs before every command. It reads the --config file when present, applies the log level
// and falls back to defaults otherwise.
func (r *Runner) loadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	if !r.pinned {
		if _, err := os.Stat(r.configPath); err == nil {
			config, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return ctx, err
			}
			r.config = config
		} else {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		}
	}

	level := shared.ParseLogLevel(r.config.Log.Level)
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)
	return ctx, nil
}

// client returns the gallery client, building it from the config on first use.
func (r *Runner) client(ctx context.Context) (services.Gallery, error) {
	if r.gallery != nil {
		return r.gallery, nil
	}
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	var session *shared.Session
	if path := r.config.Auth.SessionFile; path != "" {
		if _, err := os.Stat(shared.ExpandPath(path)); err == nil {
			s, err := shared.LoadSession(path)
			if err != nil {
				return nil, err
			}
			session = s
		}
	}
	if session == nil && r.config.Auth.AccessToken == "" {
		r.logger.Warn("no access token or browser session configured, requests will be anonymous")
	}

	httpClient := services.NewHTTPClient(ctx, r.config.Auth, r.config.Server.Timeout())
	r.gallery = services.NewGalleryClient(r.config.Server.BaseURL, httpClient,
		services.WithDecorator(services.SessionHeaders(session)),
		services.WithRateLimit(r.config.Server.RequestsPerSecond),
		services.WithLogger(shared.WithLogger(r.logger, "component", "gallery")),
	)
	return r.gallery, nil
}

// journal opens the action journal. When the database cannot be opened the journal is disabled and the
// returned recorder is nil, which records nothing.
func (r *Runner) journal() (*repositories.Recorder, func()) {
	db, err := shared.OpenJournal(r.config.Database)
	if err != nil {
		r.logger.Warn("journal disabled", "path", r.config.Database.Path, "error", err)
		return nil, func() {}
	}
	recorder := repositories.NewRecorder(repositories.NewJournalRepository(db), shared.WithLogger(r.logger, "component", "journal"))
	return recorder, func() { db.Close() }
}

// Confirm asks a yes/no question on the runner's input. Anything but y or yes declines.
func (r *Runner) Confirm(message string) bool {
	r.writePlain("%s [y/N]: ", message)
	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
