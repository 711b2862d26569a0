package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/diar-analytics/majlis/pkg/cli/config"
)

func cmdDatasets() *cli.Command {
	var sqliteCfg config.SQLite
	var limit int
	var offset int

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum rows to list",
			Value:       50,
			Destination: &limit,
		},
		&cli.IntFlag{
			Name:        "offset",
			Usage:       "Rows to skip",
			Value:       0,
			Destination: &offset,
		},
	}
	flags = append(flags, sqliteCfg.Flags()...)

	return &cli.Command{
		Name:  "datasets",
		Usage: "List dataset metadata and per-category counts",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, closer, err := sqliteCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer closer()

			out := os.Stdout
			datasets := repo.Datasets()

			counts, err := datasets.CountByCategory(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to count datasets")
			}
			headerColor.Fprintln(out, "Datasets by category")
			total := 0
			for category, count := range counts {
				fmt.Fprintf(out, "  %s: %d\n", category, count)
				total += count
			}
			fmt.Fprintf(out, "  total: %d\n\n", total)

			rows, err := datasets.List(ctx, limit, offset)
			if err != nil {
				return goerr.Wrap(err, "failed to list datasets")
			}
			for _, row := range rows {
				color.New(color.Bold).Fprintln(out, row.Title)
				dimColor.Fprintf(out, "  %s | confidence %d%% | %s\n",
					row.Category, row.Confidence, row.SourceType)
				if row.Description != "" {
					fmt.Fprintf(out, "  %s\n", row.Description)
				}
			}
			return nil
		},
	}
}
