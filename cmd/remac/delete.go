package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <macro-id>",
	Short: "Delete a stored macro",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine, err := buildEngine(cfg, false)
		if err != nil {
			return err
		}

		if err := engine.DeleteMacro(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("macro %s deleted\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
