package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/backoffice/internal/authz"
	"github.com/felixgeelhaar/backoffice/internal/session"
)

// StatusReport describes the stored session.
type StatusReport struct {
	LoggedIn    bool                `json:"logged_in" yaml:"logged_in"`
	Scope       string              `json:"scope,omitempty" yaml:"scope,omitempty"`
	User        *session.User       `json:"user,omitempty" yaml:"user,omitempty"`
	RawRole     string              `json:"raw_role,omitempty" yaml:"raw_role,omitempty"`
	Role        authz.Role          `json:"role,omitempty" yaml:"role,omitempty"`
	Fingerprint string              `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	ExpiresAt   *time.Time          `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired     bool                `json:"expired,omitempty" yaml:"expired,omitempty"`
	Home        authz.View          `json:"home,omitempty" yaml:"home,omitempty"`
	Admin       bool                `json:"admin_access" yaml:"admin_access"`
	Caps        *authz.Capabilities `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Long: `Show which scope holds the session, who it belongs to and what the
role allows. The token itself is never printed, only a short fingerprint.

Examples:
  backoffice status
  backoffice status --json
  backoffice status --format yaml`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
	addFormatFlags(cmd)
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	report := buildStatusReport(cmdCtx.Store, time.Now())

	f, err := formatterFor(cmd)
	if err != nil {
		return err
	}
	return f.Format(report)
}

// RenderText writes the report for a terminal.
func (r StatusReport) RenderText(w io.Writer) error {
	if !r.LoggedIn {
		_, err := fmt.Fprintln(w, "Not logged in.")
		return err
	}

	fmt.Fprintf(w, "Logged in (%s scope)\n", r.Scope)
	if u := r.User; u != nil {
		fmt.Fprintf(w, "  User:        %s <%s>\n", u.Name, u.Email)
		fmt.Fprintf(w, "  ID:          %s\n", u.ID)
	}
	fmt.Fprintf(w, "  Role:        %s (stored as %q)\n", r.Role.Label(), r.RawRole)
	fmt.Fprintf(w, "  Home view:   %s\n", r.Home)
	fmt.Fprintf(w, "  Admin panel: %t\n", r.Admin)
	fmt.Fprintf(w, "  Token:       %s\n", r.Fingerprint)
	if r.ExpiresAt != nil {
		state := "valid"
		if r.Expired {
			state = "expired"
		}
		fmt.Fprintf(w, "  Expires:     %s (%s)\n", r.ExpiresAt.Local().Format(time.RFC1123), state)
	}
	return nil
}

func buildStatusReport(store *session.Store, now time.Time) StatusReport {
	sess := store.Read()
	if !sess.Authenticated() {
		return StatusReport{}
	}

	role := authz.RoleOf(sess)
	profile := authz.ProfileFor(role)
	report := StatusReport{
		LoggedIn:    true,
		User:        sess.User,
		Role:        role,
		Fingerprint: session.Fingerprint(sess.Token),
		Home:        profile.Home,
		Admin:       role.AtLeast(authz.RoleAdmin),
		Caps:        &profile.Capabilities,
	}
	if scope, ok := store.Scope(); ok {
		report.Scope = scope.String()
	}
	if sess.User != nil {
		report.RawRole = sess.User.Role
	}
	if exp, ok := session.PeekExpiry(sess.Token); ok {
		report.ExpiresAt = &exp
		report.Expired = !exp.After(now)
	}
	return report
}
