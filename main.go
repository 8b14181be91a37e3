package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/srikiran1905s/FEDF/authentication"
	"github.com/srikiran1905s/FEDF/configuration"
	"github.com/srikiran1905s/FEDF/controllers"
	"github.com/srikiran1905s/FEDF/routes"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func main() {
	cfg := configuration.LoadConfig()

	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET is not set")
	}
	if cfg.DatabaseDSN == "" {
		logger.Fatal().Msg("DB connection string is not set")
	}

	db, err := configuration.ConnectDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to the database")
	}

	cache := configuration.NewCache(cfg.RedisAddr, cfg.RedisPassword)
	mail := controllers.NewMailer(cfg)
	tokens := authentication.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	r := routes.SetupRouter(cfg, db, cache, mail, tokens)

	logger.Info().Str("port", cfg.Port).Msg("starting vaidya server")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
