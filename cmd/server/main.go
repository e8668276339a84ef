package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"resai/internal/ai"
	"resai/internal/api"
	"resai/internal/config"
	"resai/internal/db"
	redisdb "resai/internal/redis"
)

func main() {
	// .env is optional; the config file is authoritative
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	rdb := redisdb.NewClient(cfg)
	svc := ai.NewService(cfg.OpenAI)

	r := api.SetupRouter(cfg, rdb, svc)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s%s\n", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
