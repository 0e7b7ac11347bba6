package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/backoffice/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
		Long: `Inspect the effective configuration: built-in defaults, then the
config file, then BACKOFFICE_* environment variables, then flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _ := cmd.Flags().GetString("config")
			if p == "" {
				p = config.DefaultPath()
			}
			printf(cmd, "%s\n", p)
			return nil
		},
	}

	view := &cobra.Command{
		Use:   "view",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			printf(cmd, "%s", data)
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _ := cmd.Flags().GetString("config")
			if p == "" {
				p = config.DefaultPath()
			}
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(p); err == nil && !force {
				printf(cmd, "%s already exists (use --force to overwrite)\n", p)
				return nil
			}
			if err := config.Default().Save(p); err != nil {
				return err
			}
			printf(cmd, "Wrote %s\n", p)
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing file")

	cmd.AddCommand(path, view, initCmd)
	return cmd
}
