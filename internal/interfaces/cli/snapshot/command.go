package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/usecases"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/config"
	"github.com/Picoli-Igor/Dash2/internal/interfaces/adapters"
	"github.com/Picoli-Igor/Dash2/internal/shared/id"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

type options struct {
	env      string
	output   string
	layout   string
	server   string
	database string
	username string
	password string
	sprintID int
	publish  bool
}

func NewCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Run one dashboard refresh and print the result",
		Long: `Fetch the sprint tickets once, build the summary and charts, and print the snapshot.
Connection flags override the source section of the configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", formatYAML, "Output format (yaml, json)")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "Dashboard layout (basic, summary, sprint)")
	cmd.Flags().StringVar(&opts.server, "server", "", "SQL Server address (host, host,port or host\\instance)")
	cmd.Flags().StringVar(&opts.database, "database", "", "Database name")
	cmd.Flags().StringVar(&opts.username, "username", "", "Database user")
	cmd.Flags().StringVar(&opts.password, "password", "", "Database password (prefer DASH2_SOURCE_PASSWORD)")
	cmd.Flags().IntVar(&opts.sprintID, "sprint-id", 0, "Sprint to load")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "Store the snapshot in Redis for running servers")

	return cmd
}

func run(ctx context.Context, out io.Writer, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.output != formatYAML && opts.output != formatJSON {
		return fmt.Errorf("unsupported output format %q", opts.output)
	}

	cfg, err := config.Load(opts.env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(cfg, opts)

	// Logs go to stderr so stdout holds only the snapshot.
	cfg.Logger.OutputPath = "stderr"
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	stack, err := adapters.NewDashboardStack(ctx, cfg, adapters.StackOptions{
		InstanceID: id.NewInstanceID(id.PrefixCLI),
	}, log)
	if err != nil {
		return fmt.Errorf("failed to assemble dashboard: %w", err)
	}
	defer stack.Close()

	runCtx, cancel := context.WithTimeout(ctx, adapters.RefreshTimeout(&cfg.Source))
	defer cancel()

	snapshot, refreshErr := stack.Refresh.Execute(runCtx, adapters.StaticParams(&cfg.Source), usecases.TriggerCLI)

	if opts.publish && refreshErr == nil {
		if err := stack.Store.Save(runCtx, snapshot); err != nil {
			return fmt.Errorf("failed to store snapshot: %w", err)
		}
		if stack.EventBus != nil {
			if err := stack.EventBus.PublishSnapshot(runCtx, snapshot); err != nil {
				log.Warnw("failed to publish snapshot event", "error", err)
			}
		}
	}

	if err := writeSnapshot(out, snapshot, opts.output); err != nil {
		return err
	}
	if refreshErr != nil {
		return fmt.Errorf("refresh failed: %w", refreshErr)
	}
	return nil
}

func applyOverrides(cfg *config.Config, opts *options) {
	if opts.layout != "" {
		cfg.Dashboard.Layout = opts.layout
	}
	if opts.server != "" {
		cfg.Source.Server = opts.server
	}
	if opts.database != "" {
		cfg.Source.Database = opts.database
	}
	if opts.username != "" {
		cfg.Source.Username = opts.username
	}
	if opts.password != "" {
		cfg.Source.Password = opts.password
	}
	if opts.sprintID > 0 {
		cfg.Source.SprintID = opts.sprintID
	}
	if !opts.publish {
		cfg.Redis.Enabled = false
	}
	cfg.Metrics.Enabled = false
}

func writeSnapshot(w io.Writer, snapshot *dto.DashboardSnapshot, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snapshot); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported output format %q", format)
}
