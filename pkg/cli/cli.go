// Package cli wires configuration flags into the council and exposes the
// serve, consult and datasets commands.
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/diar-analytics/majlis/pkg/cli/config"
	"github.com/diar-analytics/majlis/pkg/utils/logging"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var closer func()

	app := &cli.Command{
		Name:    "majlis",
		Usage:   "Strategic advisory council for Qatari real-estate decisions",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Info("Starting majlis", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdConsult(),
			cmdDatasets(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
