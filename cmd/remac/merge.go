package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <macro-id>...",
	Short: "Merge macros into a new one",
	Long: `Concatenates the calls of the given macros in order into a new macro.
Parameters sharing a name are de-duplicated; the first occurrence wins and
later defaults fold into its examples.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine, err := buildEngine(cfg, false)
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = "merged"
		}

		merged, err := engine.Merge(cmd.Context(), name, args...)
		if err != nil {
			return err
		}
		fmt.Printf("created macro %s (%q) with %d calls and %d parameters\n",
			merged.ID, merged.Name, len(merged.Calls), len(merged.Parameters))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringP("name", "n", "", "Name for the merged macro")
}
