package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <macro-id>",
	Short: "Analyze a macro: patterns, dependencies, side effects, parameters",
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

		analysis, err := engine.Analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("output")
		switch format {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(analysis)
		case "yaml":
			return yaml.NewEncoder(os.Stdout).Encode(analysis)
		default:
			return fmt.Errorf("unknown output format %q (supported: json, yaml)", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("output", "o", "json", "Output format: json or yaml")
}
