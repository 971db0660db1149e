package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sortdhq/sortd/internal/api"
	"github.com/sortdhq/sortd/internal/config"
	"github.com/sortdhq/sortd/internal/debug"
	"github.com/sortdhq/sortd/internal/envelope"
	"github.com/sortdhq/sortd/internal/executor"
	"github.com/sortdhq/sortd/internal/state"
	"github.com/sortdhq/sortd/internal/ui"
)

var (
	// Global flags.
	hostFlag       string
	orgIDFlag      string
	configDirFlag  string
	jsonOutput     bool
	yesFlag        bool
	nonInteractive bool
	verboseFlag    bool
	quietFlag      bool

	// Per-invocation wiring, built in PersistentPreRunE.
	cfg      *config.Config
	store    *state.Store
	client   *api.Client
	cmdStart time.Time
)

var rootCmd = &cobra.Command{
	Use:   "sortd",
	Short: "sortd - propose and apply task mutations from the command line",
	Long: `sortd queues task mutations locally as proposals, then applies them
against the backend with validation, identifier resolution, and
conflict detection. Every command supports --json for scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmdStart = time.Now()
		debug.SetVerbose(verboseFlag)
		debug.SetQuiet(quietFlag)

		var err error
		cfg, err = config.Load(config.Flags{
			Host:   hostFlag,
			OrgID:  orgIDFlag,
			Config: configDirFlag,
		})
		if err != nil {
			return err
		}

		store = state.NewStore(cfg.ConfigDir)
		client = api.NewClient(cfg.Host, store)
		if cfg.Email != "" && cfg.Password != "" {
			client.ReauthFunc = func(ctx context.Context) error {
				debug.Logf("session expired, re-authenticating as %s", cfg.Email)
				_, err := client.Login(ctx, api.Credentials{Email: cfg.Email, Password: cfg.Password})
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "Backend host (default: $SORTD_HOST or "+config.DefaultHost+")")
	rootCmd.PersistentFlags().StringVar(&orgIDFlag, "org-id", "", "Organization ID (default: $SORTD_ORG_ID or inferred from session)")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config", "", "Config directory (default: $SORTD_CONFIG_DIR or OS config dir)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "Skip confirmation prompts")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Never prompt; fail instead")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential warnings")
}

func executorDeps() executor.Deps {
	return executor.Deps{Client: client, Store: store, OrgID: cfg.OrgID}
}

// exitWithError is the single failure exit path: the error envelope on
// stdout in JSON mode (scripts parse stdout), a styled line on stderr
// otherwise, then the taxonomy exit code.
func exitWithError(err error) {
	env, code := envelope.FromError(err)
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(env)
	} else {
		fmt.Fprintf(os.Stderr, "%s %s\n", ui.Fail(ui.IconFail), err)
	}
	os.Exit(code)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		exitWithError(err)
	}
}
