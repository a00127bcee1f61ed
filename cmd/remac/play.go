package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remaclabs/remac/pkg/player"
)

var playCmd = &cobra.Command{
	Use:   "play <macro-id>",
	Short: "Replay a macro against the configured API",
	Long: `Replays a stored macro in order, substituting parameter values given
with --param. Use --dry-run to see what would be issued without touching
the API.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		stopOnError, _ := cmd.Flags().GetBool("stop-on-error")
		paramFlags, _ := cmd.Flags().GetStringArray("param")

		params := make(map[string]any, len(paramFlags))
		for _, kv := range paramFlags {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("invalid --param %q, expected name=value", kv)
			}
			params[key] = value
		}

		// A dry run never issues calls, so no API key is needed for it.
		engine, err := buildEngine(cfg, !dryRun)
		if err != nil {
			return err
		}

		results, err := engine.Play(cmd.Context(), args[0], player.Options{
			Params:      params,
			DryRun:      dryRun,
			StopOnError: stopOnError,
		})
		if err != nil {
			return err
		}

		failed := 0
		for _, res := range results {
			status := "ok"
			switch {
			case res.DryRun:
				status = "dry-run"
			case res.FailedToken != "":
				status = fmt.Sprintf("unresolved {{%s}}", res.FailedToken)
			case res.Error != "":
				status = res.Error
			}
			if res.Failed() {
				failed++
			}
			fmt.Printf("%-6s %-40s %s\n", res.Call.Method, res.Call.Path, status)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d calls failed", failed, len(results))
		}
		fmt.Printf("%d calls completed\n", len(results))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringArrayP("param", "p", nil, "Parameter value as name=value (repeatable)")
	playCmd.Flags().Bool("dry-run", false, "Resolve and print calls without issuing them")
	playCmd.Flags().Bool("stop-on-error", false, "Abort the run on the first failed call")
}
