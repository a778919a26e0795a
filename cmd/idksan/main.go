// Command idksan starts the game server: a REST API for room and game
// management plus a WebSocket fan-out for live state updates.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/Itoshi-web/idksan/internal/constants"
	"github.com/Itoshi-web/idksan/internal/logging"
	"github.com/Itoshi-web/idksan/internal/version"
)

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:    "idksan",
		Usage:   "authoritative server for the cell upgrade elimination game",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the JSON config file",
				Value:   "./idksan_config.json",
				Sources: cli.EnvVars(constants.EnvConfigPath),
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "path to the SQLite database file",
				Value:   "./data/idksan.db",
				Sources: cli.EnvVars(constants.EnvDBPath),
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address, overrides server.address from the config",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return run(c.String("config"), c.String("db"), c.String("addr"))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logging.Fatal("Server exited", err, nil)
	}
}
