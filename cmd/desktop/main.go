// Command desktop opens the Logjam window.
//
// Without --server it runs the engine in-process on a level from the config
// directory. With --server it attaches to a session on a running game server,
// creating one when --session is empty.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/logjam/desktop"
	"github.com/wricardo/logjam/desktop/scene"
	"github.com/wricardo/logjam/game/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("error loading .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:      "logjam-desktop",
		Usage:     "play Logjam in a window",
		ArgsUsage: "[level]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("LOGJAM_DEBUG"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing level files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:  "server",
				Usage: "Attach to a game server, e.g. http://localhost:8080",
			},
			&cli.StringFlag{
				Name:  "session",
				Usage: "Session to attach to; a new one is created when empty",
			},
			&cli.IntFlag{
				Name:  "cell-size",
				Value: desktop.DefaultOptions().CellSize,
				Usage: "Cell size in pixels",
			},
		},
		Action: run,
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		log.SetLevel(log.DebugLevel)
	}

	source, err := openSource(ctx, cmd)
	if err != nil {
		return err
	}
	defer source.Close()

	opts := desktop.DefaultOptions()
	opts.CellSize = cmd.Int("cell-size")
	return desktop.Run(ctx, source, opts)
}

func openSource(ctx context.Context, cmd *cli.Command) (scene.Source, error) {
	level := cmd.Args().First()

	if baseURL := cmd.String("server"); baseURL != "" {
		sessionID := cmd.String("session")
		if sessionID == "" {
			id, err := scene.CreateSession(ctx, baseURL, level)
			if err != nil {
				return nil, err
			}
			sessionID = id
			log.WithField("session", sessionID).Info("created session")
		}
		remote, err := scene.Dial(ctx, baseURL, sessionID)
		if err != nil {
			return nil, err
		}
		return remote, nil
	}

	configs, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return nil, err
	}
	_, levelConfig := configs.GetDefault()
	if level != "" {
		if levelConfig, err = configs.LoadConfig(level); err != nil {
			return nil, err
		}
	}
	local, err := scene.NewLocal(levelConfig)
	if err != nil {
		return nil, err
	}
	return local, nil
}
