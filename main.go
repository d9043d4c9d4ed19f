// Command logjam runs the Logjam puzzle.
//
// Commands:
//  1. serve – HTTP server with the REST API, per-session WebSocket frame
//     streams and an /mcp endpoint
//  2. mcp – MCP stdio server; reuses a running game server or starts an
//     internal one on a loopback port
//  3. levels – list, validate and analyze level files
//
// The desktop window is a separate binary, see cmd/desktop.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/logjam/api"
	"github.com/wricardo/logjam/game/config"
	"github.com/wricardo/logjam/game/service"
	"github.com/wricardo/logjam/game/session"
	"github.com/wricardo/logjam/transport/mcp"
	"github.com/wricardo/logjam/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Logjam"
)

const (
	sessionMaxAge          = 24 * time.Hour
	sessionCleanupInterval = time.Hour
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("error loading .env file")
		}
	} else {
		log.Debug("loaded environment variables from .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func portFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "port",
		Value:   8080,
		Usage:   "HTTP server port",
		Sources: cli.EnvVars("PORT"),
	}
}

func fpsFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "fps",
		Value:   60,
		Usage:   "Animation ticks per second",
		Sources: cli.EnvVars("LOGJAM_FPS"),
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "logjam",
		Usage:   "push logs into the river and walk across them",
		Version: Version,
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
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetLevel(log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP server with REST API, WebSocket and MCP endpoint",
				Flags: []cli.Flag{
					portFlag(),
					fpsFlag(),
					&cli.StringFlag{
						Name:    "host",
						Value:   "localhost",
						Usage:   "HTTP server host",
						Sources: cli.EnvVars("HOST"),
					},
					&cli.StringFlag{
						Name:  "static-dir",
						Usage: "Serve files from this directory at /",
					},
				},
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "Run an MCP stdio server",
				Flags:  []cli.Flag{portFlag(), fpsFlag()},
				Action: runStdioMCP,
			},
			{
				Name:  "levels",
				Usage: "Inspect level files",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List valid levels",
						Action: runLevelsList,
					},
					{
						Name:   "validate",
						Usage:  "Validate every level file",
						Action: runLevelsValidate,
					},
					{
						Name:      "analyze",
						Usage:     "Count markers and logs and find unreachable logs",
						ArgsUsage: "[level...]",
						Action:    runLevelsAnalyze,
					},
				},
			},
		},
	}
}

// initializeServices wires the session and config managers into the game
// service.
func initializeServices(configDir string) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	return service.NewGameService(sessionManager, configManager), sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within maxAge.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				log.WithField("removed", removed).Info("cleaned up expired sessions")
			}
		}
	}
}

// startBackground runs the hub, the frame loop and session cleanup until ctx
// is cancelled.
func startBackground(ctx context.Context, svc service.GameService, sessions *session.Manager, fps int) *websocket.Hub {
	hub := websocket.NewHub()
	go hub.Run(ctx)
	go service.RunFrameLoop(ctx, svc, service.FrameInterval(fps), hub)
	go sessionCleanupRoutine(ctx, sessions, sessionCleanupInterval, sessionMaxAge)
	return hub
}

// mcpHandler serves JSON-RPC requests for the MCP tools over plain HTTP
func mcpHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.WithError(err).Warn("failed to write mcp response")
		}
	}
}

// newRouter mounts the API at / and the MCP endpoint at /mcp
func newRouter(apiServer http.Handler, client *mcp.Client) *http.ServeMux {
	router := http.NewServeMux()
	router.Handle("/", apiServer)
	router.HandleFunc("/mcp", mcpHandler(client))
	return router
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	gameService, sessions, err := initializeServices(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	hub := startBackground(ctx, gameService, sessions, cmd.Int("fps"))

	var opts []api.Option
	if dir := cmd.String("static-dir"); dir != "" {
		opts = append(opts, api.WithStaticDir(dir))
	}
	apiServer := api.NewServer(gameService, hub, opts...)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	mcpClient := mcp.NewClient("http://" + addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      newRouter(apiServer, mcpClient),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":      addr,
			"api":       fmt.Sprintf("http://%s/api", addr),
			"websocket": fmt.Sprintf("ws://%s/api/sessions/<id>/ws", addr),
			"mcp":       fmt.Sprintf("http://%s/mcp", addr),
		}).Infof("%s v%s listening", AppName, Version)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http server shutdown error")
	}

	log.Info("server stopped")
	return nil
}

// serverAvailable reports whether a game server answers on baseURL
func serverAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalServer serves the API on a random loopback port until ctx is
// cancelled and returns its base URL.
func startInternalServer(ctx context.Context, configDir string, fps int) (string, error) {
	gameService, sessions, err := initializeServices(configDir)
	if err != nil {
		return "", err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to get available port: %w", err)
	}

	hub := startBackground(ctx, gameService, sessions, fps)
	httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}

	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("internal http server error")
		}
	}()
	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	return "http://" + listener.Addr().String(), nil
}

func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := fmt.Sprintf("http://localhost:%d", cmd.Int("port"))

	if serverAvailable(baseURL) {
		log.WithField("url", baseURL).Info("using external game server for MCP")
	} else {
		internalURL, err := startInternalServer(ctx, cmd.String("config-dir"), cmd.Int("fps"))
		if err != nil {
			return err
		}
		baseURL = internalURL
		log.WithField("url", baseURL).Info("started internal game server for MCP")
	}

	mcpClient := mcp.NewClient(baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}
