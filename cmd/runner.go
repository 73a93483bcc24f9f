package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalog/internal/services"
	"github.com/desertthunder/catalog/internal/shared"
	"github.com/desertthunder/catalog/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	service    services.Service
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	styles     *ui.Palette
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Service is optional. Without it client commands talk to the server at the configured base URL.
type RunnerOpts struct {
	Config     *shared.Config
	Service    services.Service
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Styles     *ui.Palette
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: clientTimeout(opts.Config.Client)}
	}
	if opts.Styles == nil {
		opts.Styles = ui.Styles
	}

	return &Runner{
		config:     opts.Config,
		service:    opts.Service,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		styles:     opts.Styles,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, songsCommand, playlistsCommand, healthCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// catalog returns the service client commands run against.
func (r *Runner) catalog(cmd *cli.Command) services.Service {
	if r.service != nil {
		return r.service
	}
	return r.client(cmd)
}

func (r *Runner) client(cmd *cli.Command) *services.CatalogClient {
	baseURL := r.config.Client.BaseURL
	if u := cmd.String("url"); u != "" {
		baseURL = u
	}
	if baseURL == "" {
		baseURL = services.DefaultBaseURL
	}
	return services.NewCatalogClient(baseURL, r.httpClient)
}

// loadConfig re-resolves the configuration when --config was given explicitly.
//
// The result is a copy the caller may modify.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if !cmd.IsSet("config") {
		config := *r.config
		return &config, nil
	}

	config, err := shared.ResolveConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	return config, nil
}

func clientTimeout(c shared.ClientConfig) time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
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

func (r *Runner) writePlainHeader(title string) error {
	return r.writePlain("%s\n\n", r.styles.Title(title))
}
