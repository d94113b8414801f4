package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"arena-shooter/internal/api"
	"arena-shooter/internal/config"
	"arena-shooter/internal/lobby"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file found, using environment variables only")
		}
	} else {
		log.Println("loaded environment from ../.env")
	}

	log.Println("================================")
	log.Println(" ARENA SHOOTER - MATCH SERVER")
	log.Println("================================")

	appConfig := config.Load()
	port := strconv.Itoa(appConfig.Server.Port)

	log.Printf("match config: %d tps, %dx%d world, %d max players/match",
		appConfig.Match.TickRate, appConfig.Match.WorldWidth, appConfig.Match.WorldHeight, appConfig.Match.MaxPlayers)
	log.Printf("lobby config: %d max global players, cull every %ds",
		appConfig.Lobby.MaxGlobalPlayers, appConfig.Lobby.CullInterval)
	log.Printf("resource limits: %d particles, %d effects, %d projectiles",
		appConfig.Limits.MaxParticles, appConfig.Limits.MaxEffects, appConfig.Limits.MaxProjectiles)

	l := lobby.New(appConfig.Lobby, appConfig.Match, appConfig.Limits, appConfig.Spatial)

	debugCfg := api.DefaultObservabilityConfig()
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("debug server disabled: %v", err)
		}
	}

	server := api.NewServer(l)

	go reportLobbyMetrics(l, 5*time.Second)

	go func() {
		addr := ":" + port
		log.Printf("api server on http://localhost%s", addr)
		if err := server.Start(addr); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("server ready, press ctrl+c to stop")
	<-quit

	log.Println("shutting down...")
	server.Stop()
	log.Println("goodbye")
}

// reportLobbyMetrics periodically samples the lobby's aggregate state into
// the Prometheus gauges, since neither of those concerns lives inside the
// lobby or api packages without creating an import cycle between them.
func reportLobbyMetrics(l *lobby.Lobby, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		api.UpdatePlayerCount(l.GlobalPlayerCount())
		api.UpdateActiveMatchCount(l.MatchCount())
	}
}
