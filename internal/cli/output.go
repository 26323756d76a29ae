package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/birthdays/birthdays-go/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Identity prints the signed-in user.
func (o *Output) Identity(identity model.Identity) {
	if o.format == "json" {
		o.printJSON(identity)
		return
	}
	fmt.Fprintf(o.w, "%s %s (id %d)\n", color.GreenString("Signed in as"), color.CyanString(identity.Username), identity.ID)
}

// Birthdays prints a birthday list as a table.
func (o *Output) Birthdays(birthdays []model.BirthdayResponse) {
	if o.format == "json" {
		o.printJSON(birthdays)
		return
	}
	if len(birthdays) == 0 {
		fmt.Fprintln(o.w, color.YellowString("No birthdays yet"))
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBIRTHDATE\tCOMMENT")
	for _, b := range birthdays {
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\n", b.ID, b.FirstName, b.LastName, b.Birthdate, b.Comment)
	}
	tw.Flush()
}

// Birthday prints a single birthday.
func (o *Output) Birthday(b model.BirthdayResponse) {
	if o.format == "json" {
		o.printJSON(b)
		return
	}
	o.Birthdays([]model.BirthdayResponse{b})
}

// Message prints a simple message
func (o *Output) Message(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
		return
	}
	fmt.Fprintln(o.w, color.GreenString(msg))
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}
