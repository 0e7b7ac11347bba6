package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/backoffice/internal/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version information including version number, git commit,
build date, Go version, and platform.`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
	cmd.Flags().BoolP("verbose", "v", false, "show detailed version information")
	cmd.Flags().Bool("json", false, "output version information as JSON")
	return cmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.GetInfo()

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}
		printf(cmd, "%s\n", data)
		return nil
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		printf(cmd, "%s\n", info.String())
		return nil
	}

	printf(cmd, "backoffice %s\n", info.Short())
	return nil
}
