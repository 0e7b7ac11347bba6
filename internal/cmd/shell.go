package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/backoffice/internal/auth"
	"github.com/felixgeelhaar/backoffice/internal/authz"
	boerrors "github.com/felixgeelhaar/backoffice/internal/errors"
	"github.com/felixgeelhaar/backoffice/internal/tui"
)

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open the interactive back office",
		Long: `Restore the stored session and open the interactive shell on the
role's home view. Without a session you are asked to sign in first.

Keys: enter opens the selected view, L logs out, q quits and keeps the session.`,
		Args: cobra.NoArgs,
		RunE: runShell,
	}
}

func runShell(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()
	if !tui.IsInteractive() {
		return boerrors.New(boerrors.ErrCodeCredentialsMissing, "the shell needs an interactive terminal").
			WithSuggestion("Use 'backoffice open <view>' from scripts")
	}

	ctx := cmd.Context()
	result := cmdCtx.Flow.Restore(ctx)
	if result.Next == authz.ViewLogin {
		in, err := tui.PromptCredentials(tui.LoginInput{})
		if err != nil {
			return err
		}
		signedIn, err := cmdCtx.Flow.SignIn(ctx, auth.Credential{Email: in.Email, Password: in.Password}, in.RememberMe)
		if err != nil {
			return userFacing(err)
		}
		result = *signedIn
	}

	shell := tui.NewShell(cmdCtx.Guard, result.Next,
		tui.WithNavigationBus(cmdCtx.Bus),
		tui.WithLogout(cmdCtx.Flow.Logout),
	)
	if err := tui.RunShell(ctx, shell); err != nil {
		return err
	}
	if shell.Ended() {
		printf(cmd, "Session ended.\n")
	}
	return nil
}
