package main

import (
	"io"
	"log"
	"os"

	"counterpos/internal/config"
	"counterpos/internal/http/handlers"
	applog "counterpos/internal/log"
	"counterpos/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
			applog.SetOutput(mw)
		}
	}

	db, err := repos.Open(cfg.DBDSN, cfg.SeedDemo)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	app := handlers.NewApp(db, cfg)
	log.Fatal(app.Listen(":" + cfg.Port))
}
