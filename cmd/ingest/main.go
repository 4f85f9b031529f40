package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/ingest"
	"github.com/iliyamo/movie-catalog/internal/logging"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/service"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

type LoadCmd struct {
	File      string `arg:"" type:"existingfile" help:"CSV export to load."`
	BatchSize int    `default:"500" help:"Rows inserted per transaction."`
}

func (c *LoadCmd) Run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, dialect, err := database.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	store := service.NewMovieStore(repository.NewMovieRepo(db, dialect))
	if err := store.Init(ctx); err != nil {
		return err
	}

	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	st, err := (&ingest.Loader{Store: store, BatchSize: c.BatchSize}).Load(ctx, f)
	logging.Info().
		Str("file", c.File).
		Int("rows", st.Rows).
		Int("inserted", st.Inserted).
		Int("skipped", st.Skipped).
		Dur("elapsed", time.Since(start)).
		Msg("ingest finished")
	return err
}

type HashPasswordCmd struct {
	Password string `arg:"" help:"Editor password to hash for ADMIN_PASSWORD_HASH."`
	Cost     int    `default:"12" help:"bcrypt cost."`
}

func (c *HashPasswordCmd) Run() error {
	if c.Cost < bcrypt.MinCost {
		return fmt.Errorf("cost must be at least %d", bcrypt.MinCost)
	}
	hash, err := utils.HashPassword(c.Password, c.Cost)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

var cli struct {
	LogLevel string `default:"info" env:"LOG_LEVEL" help:"Log level."`

	Load         LoadCmd         `cmd:"" help:"Load a movie CSV into the catalog database."`
	HashPassword HashPasswordCmd `cmd:"" help:"Print the bcrypt hash of an editor password."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("ingest"),
		kong.Description("Movie catalog data tools."),
		kong.UsageOnError(),
	)
	logging.Init(logging.Config{Level: cli.LogLevel, Format: "console"})

	cfg, err := config.Load()
	kctx.FatalIfErrorf(err)
	kctx.FatalIfErrorf(kctx.Run(cfg))
}
