package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	boerrors "github.com/felixgeelhaar/backoffice/internal/errors"
	"github.com/felixgeelhaar/backoffice/internal/platform"
	"github.com/felixgeelhaar/backoffice/internal/session"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the signed-in account",
		Args:  cobra.NoArgs,
		RunE:  runProfileShow,
	}
	cmd.Flags().Bool("refresh", false, "fetch the account from the API before showing it")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE:  runProfileShow,
	}
	show.Flags().Bool("refresh", false, "fetch the account from the API before showing it")

	update := &cobra.Command{
		Use:   "update",
		Short: "Change the account name or email",
		Long: `Send the new name or email to the API and store the account it returns.
The session stays in the scope it was created in.

Examples:
  backoffice profile update --name "Ada Lovelace"`,
		Args: cobra.NoArgs,
		RunE: runProfileUpdate,
	}
	update.Flags().String("name", "", "new display name")
	update.Flags().String("email", "", "new email address")

	cmd.AddCommand(show, update)
	return cmd
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	refresh, _ := cmd.Flags().GetBool("refresh")
	var user *session.User
	if refresh {
		user, err = cmdCtx.Flow.RefreshProfile(cmd.Context())
		if err != nil {
			return userFacing(err)
		}
	} else {
		sess := cmdCtx.Store.Read()
		if !sess.Authenticated() {
			return boerrors.NewNotLoggedInError()
		}
		user = sess.User
	}

	printUser(cmd, user)
	return nil
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	if name == "" && email == "" {
		return fmt.Errorf("nothing to update: pass --name or --email")
	}

	user, err := cmdCtx.Flow.UpdateProfile(cmd.Context(), platform.ProfileUpdate{Name: name, Email: email})
	if err != nil {
		return userFacing(err)
	}
	printf(cmd, "Profile updated.\n")
	printUser(cmd, user)
	return nil
}

func printUser(cmd *cobra.Command, u *session.User) {
	if u == nil {
		printf(cmd, "No account details stored.\n")
		return
	}
	printf(cmd, "ID:    %s\n", u.ID)
	printf(cmd, "Name:  %s\n", u.Name)
	printf(cmd, "Email: %s\n", u.Email)
	printf(cmd, "Role:  %s\n", u.Role)
}
