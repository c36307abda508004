package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/email"
)

var emailsCmd = &cobra.Command{
	Use:   "emails",
	Short: "Render outreach drafts for a contacts file",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.Email.Dir
		}

		contacts, err := loadContacts(in)
		if err != nil {
			return err
		}
		renderer, err := email.LoadRenderer(appFs, cfg.Email.TemplatePath, email.Sender{
			Name: cfg.Email.SenderName,
			Team: cfg.Email.SenderTeam,
		})
		if err != nil {
			return err
		}

		n, err := renderer.WriteAll(appFs, dir, contacts)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d personalized emails generated in '%s/' directory.\n", n, dir)
		return nil
	},
}

func init() {
	emailsCmd.Flags().String("in", "", "cleaned contacts JSON (required)")
	emailsCmd.Flags().String("dir", "", "output directory (default email.dir)")
	_ = emailsCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(emailsCmd)
}
