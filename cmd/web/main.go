package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/AdamBeresnev/pong-tournament-app/internal/config"
	"github.com/AdamBeresnev/pong-tournament-app/internal/db"
	"github.com/AdamBeresnev/pong-tournament-app/internal/engine"
	"github.com/AdamBeresnev/pong-tournament-app/internal/live"
	"github.com/AdamBeresnev/pong-tournament-app/internal/service"
	"github.com/AdamBeresnev/pong-tournament-app/internal/store"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	database := db.InitDB(cfg.DBPath)
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Store = sqlite3store.New(database.DB)

	eng := engine.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	tournamentService := service.NewTournamentService(database, store.NewTournamentStore(database), eng)
	userService := service.NewUserService(database, store.NewUserStore(database))

	restored, err := tournamentService.RestoreActive(context.Background())
	if err != nil {
		log.Fatal("Failed to restore tournaments:", err)
	}
	if restored > 0 {
		log.Printf("Restored %d active tournaments", restored)
	}

	hub := live.NewHub(cfg.Arena, tournamentService)

	router := newRouter(sessionManager, store.NewUserStore(database), tournamentService, userService, hub)

	log.Println("Server starting on", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatal(err)
	}
}
