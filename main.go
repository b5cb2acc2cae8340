package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/kskeerthana/billing-management/internal/api"
	"github.com/kskeerthana/billing-management/internal/config"
	"github.com/kskeerthana/billing-management/internal/database"
	"github.com/kskeerthana/billing-management/internal/logger"
	"github.com/kskeerthana/billing-management/internal/migrations"
	"github.com/kskeerthana/billing-management/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.IsDevelopment())

	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)

	st := store.New(db)
	handler := api.New(st, cfg)

	log.Info().Str("port", cfg.HTTPPort).Str("env", cfg.Environment).Msg("billing server starting")
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
