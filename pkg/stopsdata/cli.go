package stopsdata

import (
	"context"

	"github.com/transitview/transitview/pkg/mbta"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "dataset",
		Usage: "Manage static data assets",
		Subcommands: []*cli.Command{
			{
				Name:  "fetch-stops",
				Usage: "generate the all-stops snapshot asset",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output",
						Value: "data/stops.json",
						Usage: "path to write the snapshot to",
					},
				},
				Action: func(c *cli.Context) error {
					client := mbta.NewClient()

					return Fetch(context.Background(), client, c.String("output"))
				},
			},
		},
	}
}
