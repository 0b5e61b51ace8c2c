package main

import (
	"context"
	"flag"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"shopapi/internal/applog"
	"shopapi/internal/config"
	"shopapi/internal/database"
	"shopapi/internal/database/migration"
	"shopapi/internal/seed"
)

func main() {
	destroy := flag.Bool("d", false, "delete all data instead of seeding")
	flag.Parse()

	cfg := config.Load()
	loc := cfg.Location()
	ctx := context.Background()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		applog.Error(loc, "seed_db_connect_failed", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		db.Close()
		os.Exit(1)
	}

	s := seed.New(db, loc)
	if *destroy {
		err = s.Destroy(ctx)
	} else {
		_, err = s.Seed(ctx, seed.Default())
	}
	if err != nil {
		db.Close()
		os.Exit(1)
	}
}
