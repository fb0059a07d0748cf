package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/shadow-scope/pkg/server"
	"github.com/de-tools/shadow-scope/pkg/services/config"
	"github.com/de-tools/shadow-scope/pkg/services/pipeline"
	"github.com/de-tools/shadow-scope/pkg/services/resolution"
	"github.com/de-tools/shadow-scope/pkg/services/scoring"
	"github.com/de-tools/shadow-scope/pkg/services/snapshot"
	"github.com/de-tools/shadow-scope/pkg/store/sources"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	scoringPath string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Shadow Scope discovery web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "sources.cfg",
		"Path to the source profile file listing the three source CSVs")
	rootCmd.Flags().StringVarP(&scoringPath, "scoring", "s", "",
		"Optional path to a scoring settings file overriding the defaults")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	profile, err := config.LoadSourceProfile(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load source profile: %w", err)
	}

	settings := scoring.DefaultScoringSettings()
	if scoringPath != "" {
		settings, err = scoring.LoadSettings(scoringPath)
		if err != nil {
			return fmt.Errorf("failed to load scoring settings: %w", err)
		}
		logger.Info().Str("path", scoringPath).Msg("scoring settings loaded")
	}

	store := sources.NewStore(sources.Settings{
		NetworkLogPath: profile.NetworkLog,
		ExpensesPath:   profile.Expenses,
		KnownAppsPath:  profile.KnownApps,
	})
	cache := snapshot.NewCache(store, snapshot.DefaultTTL)
	workflow := resolution.NewWorkflow(store, cache)
	svc := pipeline.NewService(cache, workflow, settings)

	logger.Info().Msgf("Source profile found at `%s` successfully loaded.", cfgPath)

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "8080"
	}

	api := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Pipeline: svc,
			Settings: settings,
			Logger:   logger,
		},
	})

	return api.Start()
}
