// Command yam-master-server starts the authoritative Yam Master dice
// game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing the REST API,
//     the WebSocket game transport, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server over the same game service
//
// Flags control host/port, the settings directory, debug logging,
// version output, and optional ngrok tunneling for easy external access
// during development.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/jmorel/yam-master-server/api"
	"github.com/jmorel/yam-master-server/game/config"
	"github.com/jmorel/yam-master-server/game/service"
	"github.com/jmorel/yam-master-server/game/session"
	"github.com/jmorel/yam-master-server/transport/mcp"
	"github.com/jmorel/yam-master-server/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Yam Master Server"
)

// Configuration flags control how the server starts and which services
// are enabled. Environment variables (and a .env file) provide the
// defaults; flags override them.
var (
	port         = flag.Int("port", 0, "HTTP server port (default from PORT env)")
	host         = flag.String("host", "", "HTTP server host (default from HOST env)")
	configDir    = flag.String("config-dir", "", "Directory containing settings files (default from CONFIG_DIR env)")
	settingsName = flag.String("settings", "default", "Name of the settings file to play with")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                    # Run HTTP server on default port 3000\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090         # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -settings blitz    # Play with the blitz pacing\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp          # Run MCP stdio server\n", os.Args[0])
	}
}

// main parses flags, wires the game stack, and starts the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err == nil {
		log.Info().Msg("loaded environment variables from .env file")
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	env, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load server configuration")
	}
	if *host != "" {
		env.Host = *host
	}
	if *port != 0 {
		env.Port = *port
	}
	if *configDir != "" {
		env.ConfigDir = *configDir
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug || env.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	args := flag.Args()
	mode := "server"
	if len(args) > 0 {
		mode = args[0]
	}

	log.Info().
		Str("version", Version).
		Str("mode", mode).
		Msg("starting " + AppName)

	settings, err := config.NewManager(env.ConfigDir).Load(*settingsName)
	if err != nil {
		log.Fatal().Err(err).Str("settings", *settingsName).Msg("failed to load settings")
	}

	hub := websocket.NewHub()
	manager := session.NewManager(hub, settings)
	gameService := service.NewGameService(manager)
	hub.Bind(gameService)

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCP(gameService)

	case "server", "http":
		runHTTPServer(env, gameService, hub)

	default:
		log.Fatal().Str("mode", mode).Msg("unknown mode, use 'server' (default) or 'stdio-mcp'")
	}
}

// runHTTPServer starts the HTTP server with the REST API, the WebSocket
// hub, and an /mcp endpoint. If ngrok is enabled (via flag or
// environment), it also provisions a public tunnel.
func runHTTPServer(env *config.Server, gameService service.GameService, hub *websocket.Hub) {
	apiServer := api.NewServer(gameService, hub)
	mcpServer := mcp.NewServer(gameService)

	addr := fmt.Sprintf("%s:%d", env.Host, env.Port)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().Str("addr", addr).Msg("HTTP server listening")
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	ngrokShouldRun := *ngrokEnabled || env.NgrokOn
	if ngrokShouldRun {
		wg.Add(1)
		go func() {
			defer wg.Done()

			authToken := *ngrokAuth
			if authToken == "" {
				authToken = env.NgrokAuth
			}
			if authToken == "" {
				log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
				return
			}

			log.Info().Msg("starting ngrok tunnel")

			domain := *ngrokDomain
			if domain == "" {
				domain = env.NgrokHost
			}

			var tunnel ngrokConfig.Tunnel
			if domain != "" {
				tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
				log.Info().Str("domain", domain).Msg("using custom ngrok domain")
			} else {
				tunnel = ngrokConfig.HTTPEndpoint()
			}

			tun, err := ngrok.Listen(ctx,
				tunnel,
				ngrok.WithAuthtoken(authToken),
			)
			if err != nil {
				log.Error().Err(err).Msg("failed to start ngrok tunnel")
				return
			}
			defer func() {
				if err := tun.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close ngrok tunnel")
				}
			}()

			log.Info().Str("url", tun.URL()).Msg("ngrok tunnel established")

			if err := http.Serve(tun, mainRouter); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("ngrok server error")
			}
			log.Info().Msg("ngrok tunnel closed")
		}()
	}

	sig := <-stop
	log.Info().Str("signal", sig.String()).Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("server stopped")
}

// runStdioMCP runs the MCP stdio server over the in-process game
// service. Agents play bot games; there is no websocket surface in this
// mode.
func runStdioMCP(gameService service.GameService) {
	mcpServer := mcp.NewServer(gameService)

	log.Info().Msg("MCP stdio server ready")
	if err := server.ServeStdio(mcpServer.GetMCPServer()); err != nil {
		log.Fatal().Err(err).Msg("MCP stdio server error")
	}
}
