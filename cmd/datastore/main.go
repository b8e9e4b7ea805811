// Command datastore maintains the persisted store outside the request path:
// it rebuilds or updates the completed-contests table from the results feed,
// imports spreadsheet backfills, and runs the near-term prediction build pass.
// The deployment schedules it so only one job runs at a time.
package main

import (
	"context"
	"flag"
	"log"

	"puckcast/adapters/excel"
	"puckcast/adapters/store"
	"puckcast/domain/core"
	"puckcast/internal"
	"puckcast/internal/config"
	"puckcast/internal/container"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	job := flag.String("job", "", "one of: rebuild, update, predictions, import")
	start := flag.String("start", "", "first date to ingest for rebuild (YYYY-MM-DD)")
	file := flag.String("file", "", "workbook path for import")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	logger := internal.NewDefaultLogger()

	c, err := container.New(cfg, logger)
	if err != nil {
		log.Fatalf("container init failed: %v", err)
	}
	defer c.Close()

	db, err := store.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		log.Fatalf("store connection failed: %v", err)
	}
	ctx := context.Background()
	if err := store.NewMigrator().Run(ctx, db); err != nil {
		log.Fatalf("store migration failed: %v", err)
	}
	if err := c.InitWithDatabase(ctx, db); err != nil {
		log.Fatalf("container init with database failed: %v", err)
	}

	today := core.Today()
	switch *job {
	case "rebuild":
		if *start == "" {
			log.Fatal("-start is required for rebuild")
		}
		startDay, err := core.ParseDay(*start)
		if err != nil {
			log.Fatalf("invalid -start: %v", err)
		}
		n, err := c.Ingest.Rebuild(ctx, startDay, today)
		if err != nil {
			log.Fatalf("rebuild failed: %v", err)
		}
		logger.Info("rebuild complete: %d contests stored", n)
	case "update":
		n, err := c.Ingest.Update(ctx, today)
		if err != nil {
			log.Fatalf("update failed: %v", err)
		}
		logger.Info("update complete: %d contests stored", n)
	case "predictions":
		n, err := c.Prediction.BuildNearTerm(ctx, today)
		if err != nil {
			log.Fatalf("prediction build failed: %v", err)
		}
		logger.Info("prediction build complete: %d games cached", n)
	case "import":
		if *file == "" {
			log.Fatal("-file is required for import")
		}
		contests, err := excel.NewReader(*file).Read()
		if err != nil {
			log.Fatalf("import read failed: %v", err)
		}
		n, err := c.Ingest.ImportContests(ctx, contests)
		if err != nil {
			log.Fatalf("import failed: %v", err)
		}
		logger.Info("import complete: %d contests stored", n)
	default:
		log.Fatal("unknown -job, takes one of: rebuild, update, predictions, import")
	}
}
