package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the backoffice command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "backoffice",
		Short: "Admin back-office client",
		Long: `backoffice signs administrators and developers into the back-office API,
keeps the session on this machine, and opens the views their role allows.

A session is kept in one of two places: the durable scope survives reboots
(login --remember), the ephemeral scope lives in the per-user runtime
directory and is gone after logout or restart.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $XDG_CONFIG_HOME/backoffice/config.yaml)")
	flags.String("api-url", "", "back-office API base URL (overrides config and BACKOFFICE_API_URL)")
	flags.String("log-level", "", "log level: debug, info, warn, error, off")
	flags.String("trace", "", "export traces: --trace (stdout), --trace=otlp or --trace=none")
	flags.Lookup("trace").NoOptDefVal = "stdout"

	rootCmd.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newNavCmd(),
		newOpenCmd(),
		newProfileCmd(),
		newShellCmd(),
		newDoctorCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// interrupt by main.
func ExecuteContext(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
