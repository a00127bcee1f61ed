package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/remaclabs/remac/internal/presentation/tui"
	"github.com/remaclabs/remac/pkg/generator"
)

var generateCmd = &cobra.Command{
	Use:   "generate <macro-id>",
	Short: "Generate a typed tool definition from a macro",
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

		def, err := engine.GenerateTool(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("output")
		switch format {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(def)
		case "yaml":
			return yaml.NewEncoder(os.Stdout).Encode(def)
		case "pretty":
			render := tui.NewRenderer()
			out, err := render(generator.RenderMarkdown(def))
			if err != nil {
				// Fall back to raw markdown if the terminal renderer fails.
				out = generator.RenderMarkdown(def)
			}
			fmt.Print(out)
			return nil
		default:
			return fmt.Errorf("unknown output format %q (supported: json, yaml, pretty)", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("output", "o", "pretty", "Output format: json, yaml, or pretty")
}
