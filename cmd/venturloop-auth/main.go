package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/venturloop/auth-relay/internal/app"
	"github.com/venturloop/auth-relay/internal/config"
	"github.com/venturloop/auth-relay/internal/logger"
	"go.uber.org/zap"
)

func main() {
	Execute()
}

// rootCmd runs the relay server
var rootCmd = &cobra.Command{
	Use:   "venturloop-auth",
	Short: "OAuth callback relay for the Venturloop mobile app",
	Long: `venturloop-auth receives Google and LinkedIn OAuth callbacks, exchanges the
authorization code, forwards the identity to the Venturloop backend and sends the
mobile app back through a venturloop:// deep link.`,
	SilenceUsage: true,
	RunE:         runServer,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd.Flags())
	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	if err := logger.InitLogger(&cfg.Logging); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting venturloop-auth",
		zap.String("version", config.GetVersionInfo()),
		zap.Bool("google", cfg.Google.Enabled),
		zap.Bool("linkedin", cfg.LinkedIn.Enabled),
		zap.Bool("local_credentials", cfg.Credential.Secret != ""),
	)

	app.New(cfg).Run()
	return nil
}
