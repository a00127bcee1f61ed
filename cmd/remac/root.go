package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/remaclabs/remac"
	"github.com/remaclabs/remac/internal/config"
	"github.com/remaclabs/remac/internal/logging"
	"github.com/remaclabs/remac/pkg/adapters/file"
	"github.com/remaclabs/remac/pkg/adapters/memory"
	"github.com/remaclabs/remac/pkg/adapters/redis"
	"github.com/remaclabs/remac/pkg/adapters/rest"
	"github.com/remaclabs/remac/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "remac",
	Short: "remac records REST API call sequences and replays them as macros",
	Long: `remac is a macro engine for REST APIs: it records live call sequences,
infers which values were really parameters, and turns the sequence into a
typed, replayable tool.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the config file")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func buildStore(cfg *config.Config) (ports.RecordingStore, error) {
	switch cfg.Store.Backend {
	case "memory":
		return memory.NewStore(), nil
	case "file":
		return file.New(cfg.Store.Path), nil
	case "redis":
		return redis.New(cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (supported: memory, file, redis)", cfg.Store.Backend)
	}
}

// buildEngine assembles the engine from config. withIssuer controls whether
// a live REST issuer is attached; commands that never issue calls skip it.
func buildEngine(cfg *config.Config, withIssuer bool) (*remac.Engine, error) {
	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	opts := []remac.Option{
		remac.WithStore(store),
		remac.WithLogger(logger),
	}

	if withIssuer {
		if cfg.API.BaseURL == "" {
			return nil, fmt.Errorf("api.base_url is not configured (set REMAC_API_BASE_URL or the config file)")
		}
		key := cfg.API.Key
		if key == "" {
			key, err = promptAPIKey()
			if err != nil {
				return nil, err
			}
		}
		opts = append(opts, remac.WithIssuer(rest.New(cfg.API.BaseURL,
			rest.WithAPIKey(key),
			rest.WithKeyHeader(cfg.API.KeyHeader),
			rest.WithLogger(logger),
		)))
	}

	return remac.New(opts...), nil
}

// promptAPIKey asks for the key interactively without echoing it. Fails when
// stdin is not a terminal, so scripted runs must configure the key instead.
func promptAPIKey() (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no API key configured and stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "API key: ")
	key, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return string(key), nil
}
