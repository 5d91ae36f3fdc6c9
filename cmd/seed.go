package cmd

import (
	"fmt"

	"github.com/cqroot/prompt"
	"github.com/urfave/cli/v2"

	"civfeed/db"
)

func seedCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Skip the confirmation prompt",
		},
	)

	return &cli.Command{
		Name:  "seed",
		Usage: "Fill the database with development data",
		Description: `Inserts sample categories, posts, news items and reels with
staggered timestamps so the feed and trending endpoints have data to
work with. Intended for local development only.`,
		Flags: flags,
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			if !ctx.Bool("yes") {
				answer, err := prompt.New().
					Ask(fmt.Sprintf("Seed development data into %s?", cfg.Database)).
					Choose([]string{"Yes", "No"})
				if err != nil {
					return err
				}
				if answer != "Yes" {
					fmt.Println("Aborted")
					return nil
				}
			}

			return db.Seed(cfg.Database)
		},
	}
}
