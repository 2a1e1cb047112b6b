package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"invclean/internal/validator"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the device and site rule tables in evaluation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printRules(cmd.OutOrStdout())
	},
}

func printRules(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "DEVICE RULES (first match wins)\n")
	fmt.Fprintf(w, "#\tPATTERN\tTYPE\tCONFIDENCE\n")
	for i, r := range validator.DeviceRules {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, r.Pattern, r.Type, r.Confidence)
	}

	for _, table := range []struct {
		title string
		subs  []validator.Substitution
	}{
		{"SITE CITY CODES", validator.CityCodes},
		{"SITE ABBREVIATIONS", validator.Abbreviations},
	} {
		fmt.Fprintf(w, "\n%s\n", table.title)
		fmt.Fprintf(w, "#\tPATTERN\tREPLACEMENT\n")
		for i, s := range table.subs {
			fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, s.Pattern, s.Replacement)
		}
	}

	return w.Flush()
}
