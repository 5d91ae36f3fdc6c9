package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"civfeed/config"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "civfeed",
		Usage: "Unified feed and trending service for the civic platform",
		Description: `Serves the unified activity feed of the civic platform: discussion
		posts, news articles and short-form reels merged into one paginated
		feed, plus a trending view ranked by engagement within a time window.

		The service reads from an SQLite record store written by the platform's
		content services. Flags can generally be set via environment variables,
		e.g.:

		--database => CIVFEED_DATABASE=civfeed.db
		--port => CIVFEED_PORT=3000
		`,
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			rollbackCmd(),
			seedCmd(),
			tidyCmd(),
			trendingCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// Flags shared by every command that touches the store.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to TOML configuration file",
			EnvVars: []string{"CIVFEED_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "database",
			Aliases: []string{"d"},
			Usage:   "SQLite database file location",
			EnvVars: []string{"CIVFEED_DATABASE"},
		},
	}
}

// loadConfig reads the config file (if any) and applies flag and
// environment overrides on top.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(ctx.String("config"))
	if err != nil {
		return nil, err
	}
	if ctx.IsSet("database") {
		cfg.Database = ctx.String("database")
	}
	if ctx.IsSet("port") {
		cfg.Port = ctx.Int("port")
	}
	if ctx.IsSet("environment") {
		cfg.Environment = ctx.String("environment")
	}
	return cfg, nil
}
