package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/birthdays/birthdays-go/internal/model"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your birthdays",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireLogin(cmd); err != nil {
				return err
			}

			birthdays, err := a.client.ListBirthdays(cmd.Context())
			if err != nil {
				return err
			}

			a.output(cmd).Birthdays(birthdays)
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var req model.BirthdayRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a birthday",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireLogin(cmd); err != nil {
				return err
			}

			b, err := a.client.CreateBirthday(cmd.Context(), req)
			if err != nil {
				return err
			}

			a.output(cmd).Birthday(b)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.FirstName, "first", "", "First name (required)")
	cmd.Flags().StringVar(&req.LastName, "last", "", "Last name (required)")
	cmd.Flags().StringVar(&req.Birthdate, "date", "", "Birthdate as YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&req.Comment, "comment", "", "Free-text comment")
	_ = cmd.MarkFlagRequired("first")
	_ = cmd.MarkFlagRequired("last")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var first, last, date, comment string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a birthday",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			// Only flags given on the command line are sent.
			var patch model.BirthdayPatch
			flags := cmd.Flags()
			if flags.Changed("first") {
				patch.FirstName = &first
			}
			if flags.Changed("last") {
				patch.LastName = &last
			}
			if flags.Changed("date") {
				patch.Birthdate = &date
			}
			if flags.Changed("comment") {
				patch.Comment = &comment
			}

			if _, err := a.requireLogin(cmd); err != nil {
				return err
			}

			b, err := a.client.UpdateBirthday(cmd.Context(), id, patch)
			if err != nil {
				return err
			}

			a.output(cmd).Birthday(b)
			return nil
		},
	}

	cmd.Flags().StringVar(&first, "first", "", "First name")
	cmd.Flags().StringVar(&last, "last", "", "Last name")
	cmd.Flags().StringVar(&date, "date", "", "Birthdate as YYYY-MM-DD")
	cmd.Flags().StringVar(&comment, "comment", "", "Free-text comment")

	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a birthday",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.requireLogin(cmd); err != nil {
				return err
			}

			if err := a.client.DeleteBirthday(cmd.Context(), id); err != nil {
				return err
			}

			a.output(cmd).Message(fmt.Sprintf("Deleted birthday %d", id))
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
