package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/backoffice/internal/health"
	"github.com/felixgeelhaar/backoffice/internal/tui"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the API connection and local session storage",
		Long: `Run diagnostic checks: whether the back-office API answers, whether
both session directories are private to you, and whether the stored token
has expired.

Exits non-zero when any check is unhealthy.`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
	addFormatFlags(cmd)
	return cmd
}

// doctorReport is the doctor output.
type doctorReport struct {
	Status  health.Status   `json:"status" yaml:"status"`
	Reports []health.Report `json:"checks" yaml:"checks"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	manager := health.NewManager().WithTimeout(cmdCtx.Config.API.Timeout)
	manager.AddChecker(health.NewAPIChecker(cmdCtx.Client))
	manager.AddChecker(health.NewScopeChecker("durable-scope", cmdCtx.Config.Session.DurableDir, cmdCtx.Config.Session.Key))
	manager.AddChecker(health.NewScopeChecker("ephemeral-scope", cmdCtx.Config.Session.EphemeralDir, cmdCtx.Config.Session.Key))
	manager.AddChecker(health.NewTokenChecker(cmdCtx.Store))

	reports := manager.Run(cmd.Context())
	overall := health.Overall(reports)

	f, err := formatterFor(cmd)
	if err != nil {
		return err
	}
	if err := f.Format(doctorReport{Status: overall, Reports: reports}); err != nil {
		return err
	}

	if overall == health.StatusUnhealthy {
		return fmt.Errorf("doctor found unhealthy checks")
	}
	return nil
}

// RenderText writes one line per check with its details indented below.
func (d doctorReport) RenderText(w io.Writer) error {
	styles := tui.DefaultStyles()
	mark := func(s health.Status) string {
		switch s {
		case health.StatusHealthy:
			return styles.Success.Render("ok  ")
		case health.StatusDegraded:
			return styles.Notice.Render("warn")
		default:
			return styles.Error.Render("fail")
		}
	}

	for _, r := range d.Reports {
		fmt.Fprintf(w, "%s  %-16s %s\n", mark(r.Result.Status), r.Name, r.Result.Message)
		keys := make([]string, 0, len(r.Result.Details))
		for k := range r.Result.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "        %s: %v\n", k, r.Result.Details[k])
		}
	}
	_, err := fmt.Fprintf(w, "\nOverall: %s\n", d.Status)
	return err
}
