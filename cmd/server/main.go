package main

import (
	"log"

	"github.com/framewall/internal/config"
	"github.com/framewall/internal/db"
	"github.com/framewall/internal/router"
)

func main() {
	cfg := config.Load()

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := db.EnsureUser(cfg.AdminUserName, cfg.AdminUserPassword, db.RoleAdmin); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	r, _ := router.Setup(db.DB, cfg)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
