package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"civfeed/db"
	"civfeed/feeds"
	"civfeed/server"
)

func serveCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Port to listen on",
			EnvVars: []string{"CIVFEED_PORT"},
		},
		&cli.StringFlag{
			Name:    "environment",
			Aliases: []string{"e"},
			Usage:   "Runtime environment (development or production)",
			EnvVars: []string{"CIVFEED_ENVIRONMENT"},
		},
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the unified feed API",
		Description: `Starts the civfeed HTTP server.

Exposes the unified feed, the trending view and the category union over
HTTP as documented in the platform API. The record store is opened
read-mostly; migrations must have been run beforehand.`,
		Flags: flags,
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			store, err := db.NewStore(cfg.Database)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			// The trending cache is constructed once here and handed to
			// the ranker; request handlers never build their own.
			cache := feeds.NewCache(time.Duration(cfg.Trending.CacheTTLSeconds) * time.Second)

			app := server.Server(&server.ServerConfig{
				Config:     cfg,
				Composer:   feeds.NewComposer(store, cfg.Mix()),
				Ranker:     feeds.NewRanker(store, cfg.TrendingConfig(), cache),
				Aggregator: feeds.NewAggregator(store),
				Store:      store,
			})

			// Graceful shutdown
			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)
			go func() {
				<-interrupt
				log.Info("Gracefully shutting down...")
				if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
					log.Error("Error shutting down server", err)
				}
			}()

			log.WithFields(log.Fields{
				"port":        cfg.Port,
				"database":    cfg.Database,
				"environment": cfg.Environment,
			}).Info("Starting server")

			return app.Listen(fmt.Sprintf(":%d", cfg.Port))
		},
	}
}
