// Command editortoken mints a bearer token accepted by the editor guard on
// POST /questions and DELETE /questions/{id}.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
	"github.com/gokatarajesh/trivia-api/internal/config"
)

func main() {
	var (
		subject = flag.String("subject", "", "Token subject; a random id when empty")
		ttl     = flag.Duration("ttl", 0, "Token lifetime; defaults to EDITOR_TOKEN_TTL")
	)
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("component", "editortoken").Logger()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	var sec config.Security
	if err := env.Parse(&sec); err != nil {
		log.Fatal().Err(err).Msg("failed to load security config")
	}
	if sec.EditorJWTSecret == "" {
		log.Fatal().Msg("EDITOR_JWT_SECRET is not set; the editor guard is disabled")
	}
	if *ttl > 0 {
		sec.EditorTokenTTL = *ttl
	}

	issuer := os.Getenv("APP_NAME")
	if issuer == "" {
		issuer = "trivia-api"
	}

	manager := jwt.NewManager(jwt.TokenConfig{
		Secret: []byte(sec.EditorJWTSecret),
		TTL:    sec.EditorTokenTTL,
		Issuer: issuer,
	})
	token, err := manager.GenerateEditorToken(*subject)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}

	log.Info().Dur("ttl", sec.EditorTokenTTL).Msg("editor token issued")
	fmt.Println(token)
}
