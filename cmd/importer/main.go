// Command importer pulls questions from Open Trivia DB into the Postgres store.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/importer"
	"github.com/gokatarajesh/trivia-api/internal/logging"
)

func main() {
	var (
		amount     = flag.Int("amount", 20, "Number of questions to request (OpenTDB caps this at 50)")
		difficulty = flag.String("difficulty", "", "easy, medium, hard, or empty for any")
		baseURL    = flag.String("base-url", "", "OpenTDB base URL override")
	)
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("component", "importer").Logger()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}
	_ = os.Setenv("STORE_DRIVER", config.DriverPostgres)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg.Name, cfg.Env)

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer pool.Close()

	im := importer.New(
		importer.NewOpenTDBClient(*baseURL, nil),
		repository.NewQuestionRepository(pool),
		repository.NewCategoryRepository(pool),
		logger,
	)
	report, err := im.Import(ctx, *amount, *difficulty)
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
	log.Info().Int("imported", report.Imported).Msg("done")
}
