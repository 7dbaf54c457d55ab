package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/config"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/profile"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/secret"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/evolute-studio/evolute-dojo-server-sub001/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	dataDir    string
	cfg        *config.Config
	logger     *slog.Logger
	verbose    bool
	useKeyring bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "evolute-admin",
	Short: "Admin backend for the Evolute Dojo world",
	Long: `evolute-admin serves the admin API and manages connection profiles.

  A profile bundles the RPC and Torii endpoints, the world and contract
  addresses, and the admin account used to talk to the game world.
  Exactly one profile is active. The read-only "default" profile is built
  from the process environment (ADMIN_ADDRESS, RPC_URL, TORII_URL, ...).

Server settings come from EVOLUTE_* environment variables; --data-dir and
--keyring override them for a single invocation.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = dataDir
		}
		if cmd.Flags().Changed("keyring") {
			cfg.UseKeyring = useKeyring
		}
		if verbose {
			cfg.LogLevel = "debug"
		}
		logger = config.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding profiles.json (default: $EVOLUTE_DATA_DIR or ./data)")
	rootCmd.PersistentFlags().BoolVar(&useKeyring, "keyring", false, "keep private keys in the OS keychain")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		serveCmd,
		profileCmd,
	)
}

// newProfileService wires the store, repository and service from cfg.
func newProfileService(cfg *config.Config, log *slog.Logger) (*profile.Service, error) {
	var opts []profile.JSONOption
	opts = append(opts, profile.WithStoreLogger(log))
	if cfg.UseKeyring {
		ks, err := secret.OpenKeystore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening keychain: %w", err)
		}
		opts = append(opts, profile.WithSecrets(ks))
	}

	store := profile.NewJSONStore(cfg.ProfilesPath(), opts...)
	repo := profile.NewRepository(store, defaultProfileEnv(log), log)
	return profile.NewService(repo, profile.WithLogger(log)), nil
}

// defaultProfileEnv re-reads the environment on every call so the default
// profile reflects the current process configuration.
func defaultProfileEnv(log *slog.Logger) profile.EnvFunc {
	return func() config.DefaultProfileEnv {
		env, err := config.LoadDefaultProfileEnv()
		if err != nil {
			log.Warn("reading default profile environment", "error", err)
		}
		return env
	}
}
