package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"civfeed/db"
)

func tidyCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.IntFlag{
			Name:    "retention-days",
			Usage:   "Remove source rows older than this many days",
			EnvVars: []string{"CIVFEED_RETENTION_DAYS"},
		},
	)

	return &cli.Command{
		Name:  "tidy",
		Usage: "Tidy up the database",
		Description: `Tidy up the database by removing posts, news items and reels that
		are older than the retention window.

		This keeps the database size down. Can be run as a cron job.`,
		Flags: flags,
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			retention := cfg.RetentionDays
			if ctx.IsSet("retention-days") {
				retention = ctx.Int("retention-days")
			}

			removed, err := db.Tidy(cfg.Database, retention)
			if err != nil {
				return err
			}
			for table, count := range removed {
				fmt.Printf("%s: removed %d rows\n", table, count)
			}
			return nil
		},
	}
}
