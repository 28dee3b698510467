package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Eik-Lab/studieveileder/internal/config"
	"github.com/Eik-Lab/studieveileder/internal/logging"
)

var version = "dev"

// env is what every subcommand needs once flags are parsed.
type env struct {
	cfg *config.Config
	log *slog.Logger
}

func newRootCommand() *cobra.Command {
	e := &env{}

	cmd := &cobra.Command{
		Use:   "portalctl",
		Short: "Operate the study portal backend",
		Long: `portalctl runs maintenance tasks against the study portal database:
schema migrations, course page imports, yearly grade sheet imports and
sheet uploads.

Configuration is read the same way as the API server: CONFIG_PATH (or
./config.yaml) overlaid with environment variables and an optional .env file.`,
		Version:      version,
		SilenceUsage: true,
	}

	configPath := cmd.PersistentFlags().String("config", "", "Path to a YAML config file (overrides CONFIG_PATH)")
	debug := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		if *configPath != "" {
			if err := os.Setenv("CONFIG_PATH", *configPath); err != nil {
				return err
			}
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if *debug {
			cfg.Log.Level = "debug"
		}

		e.cfg = cfg
		e.log = logging.New(cmd.ErrOrStderr(), cfg.Log)
		return nil
	}

	cmd.AddCommand(newMigrateCommand(e))
	cmd.AddCommand(newImportCoursesCommand(e))
	cmd.AddCommand(newImportGradesCommand(e))
	cmd.AddCommand(newUploadSheetCommand(e))

	return cmd
}
