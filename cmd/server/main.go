package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/campusops/registrar-back/internal/api"
	"github.com/campusops/registrar-back/internal/config"
	"github.com/campusops/registrar-back/internal/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using system env")
	}

	cfg := config.Load()

	db.InitDB(cfg.DBUrl)

	r := api.SetupRouter(cfg)

	log.Println("Server running on", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
