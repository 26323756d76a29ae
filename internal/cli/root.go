// Package cli implements the birthdays command-line client.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/birthdays/birthdays-go/internal/client"
)

// errNotLoggedIn sends the user to the login command, the way the web client
// redirects to its login page.
var errNotLoggedIn = errors.New("not logged in, run `birthdays login` first")

// errAlreadySignedIn keeps register and login from switching accounts silently.
var errAlreadySignedIn = errors.New("already signed in")

type app struct {
	cfg    *Config
	client *client.Client
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{cfg: DefaultConfig()}

	rootCmd := &cobra.Command{
		Use:   "birthdays",
		Short: "Keep track of the birthdays of the people you know",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(a.cfg.ServerURL)
			if err != nil {
				return err
			}

			value, err := a.cfg.LoadSession()
			if err != nil {
				return fmt.Errorf("reading session file: %w", err)
			}
			c.SetSessionCookie(value)

			a.client = c
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.saveSession()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfg.ServerURL, "server", a.cfg.ServerURL, "Server URL (env: BIRTHDAYS_SERVER)")
	rootCmd.PersistentFlags().StringVar(&a.cfg.SessionFile, "session-file", a.cfg.SessionFile, "Session file path (env: BIRTHDAYS_SESSION_FILE)")
	rootCmd.PersistentFlags().StringVarP(&a.cfg.Output, "output", "o", a.cfg.Output, "Output format: text, json")

	rootCmd.AddCommand(newRegisterCmd(a))
	rootCmd.AddCommand(newLoginCmd(a))
	rootCmd.AddCommand(newLogoutCmd(a))
	rootCmd.AddCommand(newWhoamiCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newUpdateCmd(a))
	rootCmd.AddCommand(newDeleteCmd(a))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) output(cmd *cobra.Command) *Output {
	return NewOutput(a.cfg.Output, cmd.OutOrStdout())
}

func (a *app) saveSession() error {
	if a.client == nil {
		return nil
	}
	if err := a.cfg.SaveSession(a.client.SessionCookie()); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// requireLogin loads the auth state and fails when nobody is signed in.
func (a *app) requireLogin(cmd *cobra.Command) (*client.Auth, error) {
	auth, err := client.NewAuth(cmd.Context(), a.client)
	if err != nil {
		return nil, err
	}
	if !auth.LoggedIn() {
		return nil, errNotLoggedIn
	}
	return auth, nil
}
