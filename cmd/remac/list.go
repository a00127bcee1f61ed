package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/remaclabs/remac/pkg/ports"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored macros",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine, err := buildEngine(cfg, false)
		if err != nil {
			return err
		}

		q := ports.Query{}
		q.Name, _ = cmd.Flags().GetString("name")
		q.Category, _ = cmd.Flags().GetString("category")
		q.Tags, _ = cmd.Flags().GetStringSlice("tags")

		recs, err := engine.SearchMacros(cmd.Context(), q)
		if err != nil {
			return err
		}

		if len(recs) == 0 {
			fmt.Println("No macros found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCALLS\tPARAMS\tUPDATED")
		for _, rec := range recs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
				rec.ID, rec.Name, len(rec.Calls), len(rec.Parameters),
				rec.Updated.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("name", "", "Filter by name substring")
	listCmd.Flags().String("category", "", "Filter by category")
	listCmd.Flags().StringSlice("tags", nil, "Filter by tags (all must match)")
}
