package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/resolve"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve organization names to URLs from the reference dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, _ := cmd.Flags().GetStringArray("name")
		reference, _ := cmd.Flags().GetString("reference")
		if reference == "" {
			reference = cfg.Pipeline.ReferencePath
		}

		r, err := resolve.Load(appFs, reference)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), r.ResolveAll(names))
	},
}

func init() {
	resolveCmd.Flags().StringArray("name", nil, "organization name to resolve (repeatable)")
	resolveCmd.Flags().String("reference", "", "reference dataset path (default pipeline.reference_path)")
	_ = resolveCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(resolveCmd)
}
