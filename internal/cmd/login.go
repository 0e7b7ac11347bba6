package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/backoffice/internal/auth"
	boerrors "github.com/felixgeelhaar/backoffice/internal/errors"
	"github.com/felixgeelhaar/backoffice/internal/tui"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the back office",
		Long: `Sign in with an administrator or developer account.

The admin login is tried first. Accounts that belong to the developer portal
are signed in there automatically. Only accounts with at least the admin role
keep a session.

With --remember the session survives reboots; otherwise it lasts until
logout or until the runtime directory is cleared.

Examples:
  backoffice login
  backoffice login --email admin@example.com --password secret --remember`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}

	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")
	cmd.Flags().Bool("remember", false, "keep the session across restarts")
	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	remember, _ := cmd.Flags().GetBool("remember")

	if email == "" || password == "" {
		if !tui.ShouldPrompt() {
			if email == "" {
				return boerrors.NewCredentialsMissingError("email")
			}
			return boerrors.NewCredentialsMissingError("password")
		}
		in, err := tui.PromptCredentials(tui.LoginInput{
			Email:      email,
			Password:   password,
			RememberMe: remember,
		})
		if err != nil {
			return err
		}
		email, password, remember = in.Email, in.Password, in.RememberMe
	}

	result, err := cmdCtx.Flow.SignIn(cmd.Context(), auth.Credential{Email: email, Password: password}, remember)
	if err != nil {
		return userFacing(err)
	}

	scope, _ := cmdCtx.Store.Scope()
	name := "unknown account"
	if u := result.Session.User; u != nil {
		name = u.Email
		if u.Name != "" {
			name = u.Name
		}
	}
	printf(cmd, "Signed in as %s (%s) through the %s login.\n", name, result.Role.Label(), result.Audience)
	printf(cmd, "Session kept in the %s scope.\n", scope)
	printf(cmd, "Home view: %s\n", result.Next)
	return nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Long: `Remove the stored session from both scopes. The API keeps no
server-side session, so nothing is sent over the network.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cmdCtx.Close()

			if !cmdCtx.Store.Read().Authenticated() {
				printf(cmd, "Not logged in.\n")
				return nil
			}
			cmdCtx.Flow.Logout()
			printf(cmd, "Logged out.\n")
			return nil
		},
	}
}
