package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/artifact"
	"github.com/sells-group/leadgen-cli/internal/dedupe"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove duplicate contacts by (name, company)",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		out, _ := cmd.Flags().GetString("out")

		contacts, err := loadContacts(in)
		if err != nil {
			return err
		}
		unique, removed := dedupe.Contacts(contacts)
		if err := artifact.WriteJSON(appFs, out, unique); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed duplicates: %d entries deleted\nCleaned data saved to %s\n", removed, out)
		return nil
	},
}

func init() {
	dedupeCmd.Flags().String("in", "", "raw contacts JSON (required)")
	dedupeCmd.Flags().String("out", "", "cleaned contacts JSON (required)")
	_ = dedupeCmd.MarkFlagRequired("in")
	_ = dedupeCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(dedupeCmd)
}
