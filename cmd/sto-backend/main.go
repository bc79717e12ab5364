package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/KEBA-mall/sto-backend/internal/app"
	"github.com/KEBA-mall/sto-backend/internal/config"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := app.Run(cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}
