package api

import (
	"context"

	"github.com/transitview/transitview/pkg/livemap"
	"github.com/transitview/transitview/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "livemap",
		Usage: "Provides the live map engine and its web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the live map engine and web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					engine := livemap.NewEngine()
					engine.Start(context.Background())

					return SetupServer(c.String("listen"), engine)
				},
			},
		},
	}
}
