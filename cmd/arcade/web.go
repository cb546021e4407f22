package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/apple-arcade/internal/platform/web"
)

var (
	flagAddr    string
	flagRoomTTL time.Duration
	flagOrigins string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP API for browser front ends",
	Long: `Start a JSON API that serves apple game sessions over HTTP.

Each session runs in its own room with a server-side clock. Rooms that
see no requests for --room-ttl are closed. Scores are saved under the
X-Player request header, or "anonymous".

Endpoints:
  GET    /health
  POST   /sessions                       {"variant":"timed"|"zen"}
  GET    /sessions/{id}
  POST   /sessions/{id}/pointer-down     {"row":0,"col":0}
  POST   /sessions/{id}/pointer-enter    {"row":0,"col":1}
  POST   /sessions/{id}/pointer-up
  POST   /sessions/{id}/restart
  DELETE /sessions/{id}
  GET    /scores/{game}?limit=10

Examples:
  arcade web
  arcade web --addr :9000 --room-ttl 10m
  arcade web --origins http://localhost:5173,https://apples.example.com`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "HTTP listen address (host:port)")
	webCmd.Flags().DurationVar(&flagRoomTTL, "room-ttl", 30*time.Minute, "Idle time before a room is closed")
	webCmd.Flags().StringVar(&flagOrigins, "origins", "*", "Comma-separated list of allowed CORS origins")
}

func runWeb(_ *cobra.Command, _ []string) {
	gameCfg, err := configureApples()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	server := web.NewServer(web.Config{
		Addr:    flagAddr,
		RoomTTL: flagRoomTTL,
		Origins: splitOrigins(flagOrigins),
		Game:    gameCfg,
		Store:   store,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting arcade HTTP API on %s\n", flagAddr)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
