package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/polkiloo/ordertrack/internal/config"
	"github.com/polkiloo/ordertrack/internal/logger"
	"github.com/polkiloo/ordertrack/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "goose command: up|down|status|version|redo|reset|up-to|down-to")
	dsn := flag.String("d", os.Getenv("DATABASE_URI"), "PostgreSQL DSN")
	flag.Parse()

	log := logger.New(&config.Config{LogLevel: os.Getenv("LOG_LEVEL")}).With(slog.String("cmd", *cmd))
	if *dsn == "" {
		fmt.Fprintln(os.Stderr, "database URI must be provided via DATABASE_URI or -d")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Error("open database failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, *cmd, flag.Args()...); err != nil {
		log.Error("migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("migration finished")
}
