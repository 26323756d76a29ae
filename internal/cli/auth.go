package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/birthdays/birthdays-go/internal/client"
	"github.com/birthdays/birthdays-go/internal/model"
)

type credentialsFunc func(auth *client.Auth, cmd *cobra.Command, user, pass string) (model.Identity, error)

func newCredentialsCmd(a *app, use, short string, do credentialsFunc) *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := client.NewAuth(cmd.Context(), a.client)
			if err != nil {
				return err
			}

			if current, ok := auth.User(); ok {
				return fmt.Errorf("%w as %s, run `birthdays logout` first", errAlreadySignedIn, current.Username)
			}

			identity, err := do(auth, cmd, user, pass)
			if err != nil {
				return err
			}

			a.output(cmd).Identity(identity)
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "Email address (required)")
	cmd.Flags().StringVarP(&pass, "pass", "p", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	return newCredentialsCmd(a, "register", "Create an account and sign in",
		func(auth *client.Auth, cmd *cobra.Command, user, pass string) (model.Identity, error) {
			return auth.Register(cmd.Context(), user, pass)
		})
}

func newLoginCmd(a *app) *cobra.Command {
	return newCredentialsCmd(a, "login", "Sign in to an existing account",
		func(auth *client.Auth, cmd *cobra.Command, user, pass string) (model.Identity, error) {
			return auth.Login(cmd.Context(), user, pass)
		})
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := client.NewAuth(cmd.Context(), a.client)
			if err != nil {
				return err
			}
			if err := auth.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logging out: %w", err)
			}

			a.output(cmd).Message("Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := a.requireLogin(cmd)
			if err != nil {
				return err
			}

			user, _ := auth.User()
			a.output(cmd).Identity(user)
			return nil
		},
	}
}
