package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"civfeed/db"
	"civfeed/feeds"
)

func trendingCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of trending items",
			Value: feeds.DefaultTrendingLimit,
		},
		&cli.StringFlag{
			Name:  "timeframe",
			Usage: "Lookback window: 24h, 7d or 30d",
			Value: feeds.DefaultTimeframe,
		},
	)

	return &cli.Command{
		Name:  "trending",
		Usage: "Print the current trending view to the command line",
		Description: `Computes the trending ranking against the configured database and
prints it as JSON on stdout.

Useful for checking what the trending endpoint would serve without
starting the server. Use a tool like jq to process the output.

Prints all other log messages to stderr.`,
		Flags: flags,
		Action: func(ctx *cli.Context) error {
			// Keep stdout clean for the JSON payload
			log.SetOutput(os.Stderr)

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			store, err := db.NewStore(cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			ranker := feeds.NewRanker(store, cfg.TrendingConfig(), nil)
			response, err := ranker.Trending(ctx.Context, ctx.Int("limit"), ctx.String("timeframe"))
			if err != nil {
				return err
			}

			payload, err := json.Marshal(response)
			if err != nil {
				return err
			}
			fmt.Println(string(payload))
			return nil
		},
	}
}
