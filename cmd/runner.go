package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/opencouncil/finsight/internal/edit"
	"github.com/opencouncil/finsight/internal/services"
	"github.com/opencouncil/finsight/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config        *shared.Config
	configPath    string
	client        *services.Client
	insights      services.InsightAPI
	contributions services.ContributionAPI
	fields        services.FieldAPI
	moderation    services.ModerationAPI
	httpClient    *http.Client
	logger        *log.Logger
	output        io.Writer
	input         io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config        *shared.Config
	ConfigPath    string
	Client        *services.Client
	Insights      services.InsightAPI
	Contributions services.ContributionAPI
	Fields        services.FieldAPI
	Moderation    services.ModerationAPI
	HTTPClient    *http.Client
	Logger        *log.Logger
	Output        io.Writer
	Input         io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:        opts.Config,
		configPath:    opts.ConfigPath,
		client:        opts.Client,
		insights:      opts.Insights,
		contributions: opts.Contributions,
		fields:        opts.Fields,
		moderation:    opts.Moderation,
		httpClient:    opts.HTTPClient,
		logger:        opts.Logger,
		output:        opts.Output,
		input:         opts.Input,
	}
}

// SetLogger swaps the runner's logger, e.g. to redirect output to a file
// while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, insightsCommand, contributeCommand, fieldsCommand, moderateCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// thresholds maps the configured sanity-check bands onto [edit.Thresholds].
func (r *Runner) thresholds() edit.Thresholds {
	th := edit.Thresholds{
		SuspectMin: r.config.Edit.SuspectMinDigits,
		SuspectMax: r.config.Edit.SuspectMaxDigits,
		RejectOver: r.config.Edit.RejectOverDigits,
	}
	if th.SuspectMin == 0 && th.SuspectMax == 0 && th.RejectOver == 0 {
		return edit.DefaultThresholds()
	}
	return th
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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
