package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export deduplicated contacts",
}

// -- export xlsx --

var exportXLSXCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Write contacts to a spreadsheet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		in, _ := cmd.Flags().GetString("in")
		out, _ := cmd.Flags().GetString("out")

		contacts, err := loadContacts(in)
		if err != nil {
			return err
		}
		if err := export.WriteXLSX(appFs, out, contacts); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d contacts written to %s\n", len(contacts), out)
		return nil
	},
}

// -- export salesforce --

var exportSalesforceCmd = &cobra.Command{
	Use:   "salesforce",
	Short: "Insert contacts as Salesforce Leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		in, _ := cmd.Flags().GetString("in")
		source, _ := cmd.Flags().GetString("lead-source")
		if source == "" {
			source = cfg.Salesforce.LeadSource
		}

		contacts, err := loadContacts(in)
		if err != nil {
			return err
		}
		sfClient, err := initSalesforce()
		if err != nil {
			return err
		}

		report, err := export.PushLeads(cmd.Context(), sfClient, contacts, source)
		if err != nil {
			return eris.Wrap(err, "export salesforce")
		}
		return writeJSON(cmd.OutOrStdout(), report)
	},
}

func init() {
	exportXLSXCmd.Flags().String("in", "", "contacts JSON (required)")
	exportXLSXCmd.Flags().String("out", "contacts.xlsx", "output workbook path")
	_ = exportXLSXCmd.MarkFlagRequired("in")

	exportSalesforceCmd.Flags().String("in", "", "contacts JSON (required)")
	exportSalesforceCmd.Flags().String("lead-source", "", "Lead.LeadSource value (default salesforce.lead_source)")
	_ = exportSalesforceCmd.MarkFlagRequired("in")

	exportCmd.AddCommand(exportXLSXCmd)
	exportCmd.AddCommand(exportSalesforceCmd)
	rootCmd.AddCommand(exportCmd)
}
