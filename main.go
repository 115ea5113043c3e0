// Command gearpuzzle starts the Gear Puzzle server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing the REST API, WebSocket updates and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server backed by an external or internal HTTP API
//
// Flags control host/port, the level and session directories, debug logging,
// version output, and optional ngrok tunneling for external access.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/gearpuzzle/api"
	"github.com/wricardo/gearpuzzle/game/config"
	"github.com/wricardo/gearpuzzle/game/service"
	"github.com/wricardo/gearpuzzle/game/session"
	"github.com/wricardo/gearpuzzle/transport/mcp"
	"github.com/wricardo/gearpuzzle/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Gear Puzzle Server"
)

const (
	sessionMaxAge       = 24 * time.Hour
	sessionCleanupEvery = time.Hour
	filesystemSyncEvery = 5 * time.Second
)

// Configuration flags control how the server starts and which services are enabled.
var (
	port         = flag.Int("port", 8080, "HTTP server port")
	host         = flag.String("host", "localhost", "HTTP server host")
	levelDir     = flag.String("level-dir", "", "Directory for saved levels; falls back to LEVEL_DIR, then \"levels\" (an explicit empty value keeps drafts in memory)")
	sessionsDir  = flag.String("sessions-dir", "", "Directory for persisted sessions; falls back to SESSIONS_DIR, then \"sessions\" (an explicit empty value disables persistence)")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

// envOr returns the environment variable key, or fallback when it is unset
func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// flagOrEnv returns the value of flag name when it was given on the command
// line, otherwise the environment variable key, otherwise fallback. Call it
// after fs is parsed and after the .env file is loaded.
func flagOrEnv(fs *flag.FlagSet, name, key, fallback string) string {
	explicit := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			explicit = true
		}
	})
	if explicit {
		return fs.Lookup(name).Value.String()
	}
	return envOr(key, fallback)
}

// loadDotEnv loads environment variables from the given files (".env" when
// none). A missing file is not an error.
func loadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
		return
	}
	log.Println("Loaded environment variables from .env file")
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio, mcp   Aliases for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                          # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090 -level-dir ./my-levels\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp                # Run MCP stdio server\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	loadDotEnv()
	flag.Parse()

	*levelDir = flagOrEnv(flag.CommandLine, "level-dir", "LEVEL_DIR", "levels")
	*sessionsDir = flagOrEnv(flag.CommandLine, "sessions-dir", "SESSIONS_DIR", "sessions")

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	mode := "server"
	if args := flag.Args(); len(args) > 0 {
		mode = args[0]
	}

	log.Printf("Starting %s v%s (mode: %s)", AppName, Version, mode)

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer()

	case "server", "http":
		svc, err := initializeServices(*levelDir, *sessionsDir)
		if err != nil {
			log.Fatalf("Failed to initialize services: %v", err)
		}
		runHTTPServer(svc)

	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// services bundles what the HTTP modes need to run and shut down
type services struct {
	game     service.GameService
	sessions *session.Manager
	stop     context.CancelFunc
}

// initializeServices wires the level manager, session persistence and the game
// service, and starts the background session maintenance routines.
func initializeServices(levelDir, sessionsDir string) (*services, error) {
	levels, err := config.NewManager(levelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create level manager: %w", err)
	}

	var sessionManager *session.Manager
	var persistence session.SessionPersistence
	if sessionsDir != "" {
		fp, err := session.NewFilePersistence(sessionsDir, levels)
		if err != nil {
			return nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
		persistence = fp
		sessionManager = session.NewManagerWithPersistence(fp)

		if err := sessionManager.LoadPersistedSessions(); err != nil {
			log.Printf("Warning: Failed to load persisted sessions: %v", err)
		}
	} else {
		sessionManager = session.NewManager()
	}

	ctx, cancel := context.WithCancel(context.Background())
	go sessionCleanupRoutine(ctx, sessionManager)
	if persistence != nil {
		go filesystemSyncRoutine(ctx, sessionManager, persistence)
	}

	return &services{
		game:     service.NewGameService(sessionManager, levels),
		sessions: sessionManager,
		stop:     cancel,
	}, nil
}

// newRouter mounts the REST API and an /mcp endpoint that proxies tool calls to baseURL
func newRouter(apiServer http.Handler, baseURL string) *http.ServeMux {
	mcpClient := mcp.NewClient(baseURL)

	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
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

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		data, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})
	return mux
}

// runHTTPServer serves the REST API, WebSocket hub and /mcp endpoint until
// SIGINT or SIGTERM. With ngrok enabled the same router is also served
// through a public tunnel.
func runHTTPServer(svc *services) {
	defer svc.stop()

	hub := websocket.NewHub()
	go hub.Run()

	addr := fmt.Sprintf("%s:%d", *host, *port)
	router := newRouter(api.NewServer(svc.game, hub), "http://"+addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
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

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if settings := resolveNgrokSettings(); settings.enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveNgrok(ctx, settings, router)
		}()
	}

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if err := svc.sessions.SaveAllSessions(); err != nil {
		log.Printf("Warning: Failed to save sessions on shutdown: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
}

// ngrokSettings is the tunnel configuration merged from flags and environment
type ngrokSettings struct {
	enabled   bool
	authToken string
	domain    string
}

// resolveNgrokSettings merges flags with NGROK_ENABLED, NGROK_AUTHTOKEN
// (or NGROK_AUTH_TOKEN) and NGROK_DOMAIN. Flags win over the environment.
func resolveNgrokSettings() ngrokSettings {
	s := ngrokSettings{
		enabled:   *ngrokEnabled,
		authToken: *ngrokAuth,
		domain:    *ngrokDomain,
	}
	if !s.enabled {
		if env := os.Getenv("NGROK_ENABLED"); env == "true" || env == "1" {
			s.enabled = true
		}
	}
	if s.authToken == "" {
		s.authToken = os.Getenv("NGROK_AUTHTOKEN")
	}
	if s.authToken == "" {
		s.authToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	if s.domain == "" {
		s.domain = os.Getenv("NGROK_DOMAIN")
	}
	return s
}

// serveNgrok serves handler through an ngrok tunnel until ctx is cancelled
func serveNgrok(ctx context.Context, settings ngrokSettings, handler http.Handler) {
	if settings.authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var endpoint ngrokConfig.Tunnel
	if settings.domain != "" {
		endpoint = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(settings.domain))
		log.Printf("Using custom ngrok domain: %s", settings.domain)
	} else {
		endpoint = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, endpoint, ngrok.WithAuthtoken(settings.authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	publicURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", publicURL)
	log.Printf("  REST API (ngrok): %s/api", publicURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", publicURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", publicURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within sessionMaxAge.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(sessionCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				log.Printf("[SESSION] cleaned up %d expired sessions", removed)
			}
		}
	}
}

// filesystemSyncRoutine drops sessions from memory once their files are deleted
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence) {
	ticker := time.NewTicker(filesystemSyncEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruneDeletedSessions(manager, persistence)
		}
	}
}

// pruneDeletedSessions removes in-memory sessions whose persisted file is gone
// and returns how many were removed
func pruneDeletedSessions(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, sess := range manager.List() {
		if persistence.Exists(sess.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(sess.ID); err == nil {
			pruned++
			log.Printf("[SESSION] pruned %s from memory (file deleted)", sess.ID)
		}
	}
	return pruned
}

// runStdioMCPWithInternalServer runs an MCP stdio server. It reuses an API
// already listening on the configured port, and otherwise starts an internal
// one on a random loopback port.
func runStdioMCPWithInternalServer() {
	externalURL := fmt.Sprintf("http://%s:%d", *host, *port)
	log.Printf("Checking for external API server at %s...", externalURL)

	baseURL := externalURL
	if !apiAvailable(externalURL) {
		log.Printf("No external API server found, starting internal HTTP server")

		svc, err := initializeServices(*levelDir, *sessionsDir)
		if err != nil {
			log.Fatalf("Failed to initialize services: %v", err)
		}
		defer svc.stop()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("Failed to get available port: %v", err)
		}
		baseURL = "http://" + listener.Addr().String()

		hub := websocket.NewHub()
		go hub.Run()

		httpServer := &http.Server{Handler: api.NewServer(svc.game, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		log.Printf("Internal HTTP server on %s for MCP stdio", listener.Addr())
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}

// apiAvailable reports whether a Gear Puzzle API answers its health check at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
