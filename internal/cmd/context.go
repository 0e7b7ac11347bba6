package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/backoffice/internal/auth"
	"github.com/felixgeelhaar/backoffice/internal/authz"
	"github.com/felixgeelhaar/backoffice/internal/config"
	"github.com/felixgeelhaar/backoffice/internal/events"
	"github.com/felixgeelhaar/backoffice/internal/log"
	"github.com/felixgeelhaar/backoffice/internal/platform"
	"github.com/felixgeelhaar/backoffice/internal/session"
	"github.com/felixgeelhaar/backoffice/internal/telemetry"
	"github.com/felixgeelhaar/backoffice/internal/ux"
)

const shutdownTimeout = 5 * time.Second

// CommandContext holds everything a command needs, built from the global
// flags and the loaded configuration.
type CommandContext struct {
	ConfigPath string
	Config     *config.Config
	Logger     *log.Logger
	Store      *session.Store
	Client     *platform.Client
	Bus        *events.Bus
	Gateway    *auth.Gateway
	Flow       *auth.Flow
	Guard      *authz.Guard

	span     trace.Span
	shutdown func(context.Context) error
}

// NewCommandContext loads the configuration and wires the session store,
// API client, sign-in flow and route guard.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := log.New(cfg.LoggerConfig())
	log.SetDefaultLogger(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := telemetry.InitProvider(ctx, cfg.TelemetryConfig(), cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartCommandSpan(ctx, cmd.Name())
	cmd.SetContext(ctx)

	store := session.NewStore(
		session.NewFileBackend(cfg.Session.DurableDir),
		session.NewFileBackend(cfg.Session.EphemeralDir),
		session.WithKey(cfg.Session.Key),
		session.WithLogger(logger),
	)

	client := platform.NewClient(cfg.API.BaseURL,
		platform.WithTokenSource(store),
		platform.WithEndpoints(cfg.API.Endpoints),
		platform.WithTimeout(cfg.API.Timeout),
	)

	bus := events.NewBus()
	bus.SetLogger(logger)

	gateway := auth.NewGateway(client, store, client.Endpoints(), auth.WithGatewayLogger(logger))
	flow := auth.NewFlow(gateway, store,
		auth.WithBus(bus),
		auth.WithProfileFetcher(client),
		auth.WithLogger(logger),
	)

	return &CommandContext{
		ConfigPath: path,
		Config:     cfg,
		Logger:     logger,
		Store:      store,
		Client:     client,
		Bus:        bus,
		Gateway:    gateway,
		Flow:       flow,
		Guard:      authz.NewGuard(store),
		span:       span,
		shutdown:   shutdown,
	}, nil
}

// Close ends the command span and flushes any exported traces.
func (c *CommandContext) Close() {
	if c.span != nil {
		c.span.End()
	}
	if c.shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := c.shutdown(ctx); err != nil {
		c.Logger.Debug("trace shutdown failed", "error", err)
	}
}

// loadConfig reads --config and applies --api-url, --log-level and --trace on top.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}

	apiURL, err := cmd.Flags().GetString("api-url")
	if err != nil {
		return nil, path, err
	}
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, path, err
	}
	traceTo, err := cmd.Flags().GetString("trace")
	if err != nil {
		return nil, path, err
	}
	if apiURL == "" && logLevel == "" && traceTo == "" {
		return cfg, path, nil
	}

	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if traceTo != "" {
		cfg.Telemetry.Enabled = traceTo != telemetry.ExporterNone
		cfg.Telemetry.Exporter = traceTo
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// userFacing converts a sign-in error into its displayable form, leaving
// other errors alone.
func userFacing(err error) error {
	if err == nil {
		return nil
	}
	var authErr *auth.AuthError
	if errors.As(err, &authErr) {
		return auth.UserError(err)
	}
	return err
}

// addFormatFlags registers --format and its --json shorthand.
func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", ux.FormatText, "output format: text, json, yaml")
	cmd.Flags().Bool("json", false, "output as JSON (same as --format json)")
}

func formatterFor(cmd *cobra.Command) (ux.Formatter, error) {
	format, _ := cmd.Flags().GetString("format")
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		format = ux.FormatJSON
	}
	return ux.NewFormatter(format, cmd.OutOrStdout())
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
