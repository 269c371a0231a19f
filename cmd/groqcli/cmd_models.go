package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(modelsCmd)
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available to the API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}

		models, err := newProvider(cfg).ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("list models: %w", err)
		}
		if len(models) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No models found.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tOWNER\tCONTEXT\tACTIVE")
		for _, m := range models {
			fmt.Fprintf(w, "%s\t%s\t%d\t%t\n", m.ID, m.OwnedBy, m.ContextWindow, m.Active)
		}
		return w.Flush()
	},
}
