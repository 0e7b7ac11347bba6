package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/backoffice/internal/authz"
	boerrors "github.com/felixgeelhaar/backoffice/internal/errors"
)

func newNavCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "List the views your role can open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cmdCtx.Close()

			sess := cmdCtx.Store.Read()
			if !sess.Authenticated() {
				return boerrors.NewNotLoggedInError()
			}

			role := authz.RoleOf(sess)
			profile := authz.ProfileFor(role)
			printf(cmd, "Views for %s:\n", role.Label())
			for _, v := range profile.Navigation {
				marker := " "
				if v == profile.Home {
					marker = "*"
				}
				printf(cmd, " %s %-16s %s\n", marker, v, v.Title())
			}
			return nil
		},
	}
}

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <view>",
		Short: "Check a view against the current session",
		Long: `Ask the route guard whether the current session may open a view.

Public views are always allowed. Protected views need a session, and a role
that does not include the view is sent to its home view instead.

Examples:
  backoffice open dashboard
  backoffice open user-roles`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cmdCtx.Close()
			return openView(cmd, cmdCtx.Guard, authz.View(args[0]))
		},
	}
}

func openView(cmd *cobra.Command, guard *authz.Guard, v authz.View) error {
	if !authz.KnownView(v) {
		return boerrors.New(boerrors.ErrCodeViewUnknown, fmt.Sprintf("unknown view %q", v)).
			WithSuggestion("Run 'backoffice nav' to list the views you can open")
	}

	d := guard.Check(v)
	switch d.Outcome {
	case authz.Allow:
		printf(cmd, "Opening %s\n", d.Target.Title())
		return nil
	case authz.RedirectToLogin:
		return boerrors.NewNotLoggedInError()
	default:
		return boerrors.NewViewDeniedError(string(v), string(d.Target))
	}
}
