// Command seed prepares a database: it migrates, seeds the theme taxonomy and
// optionally adds a team access code.
//
// Usage:
//
//	DATABASE_URL=postgres://... go run ./cmd/seed
//	DATABASE_URL=postgres://... go run ./cmd/seed -code s3cret -label "research team"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"feedbackboard/internal/auth"
	"feedbackboard/internal/db"
	"feedbackboard/internal/logger"

	"github.com/joho/godotenv"
)

var (
	code  = flag.String("code", "", "access code to add (stored as a bcrypt hash)")
	label = flag.String("label", "", "label for the access code")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	gdb, err := db.Connect(dsn)
	if err != nil {
		log.Fatal("connect database", "error", err)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal("migrate", "error", err)
	}
	if err := db.SeedThemes(gdb); err != nil {
		log.Fatal("seed themes", "error", err)
	}
	log.Info("themes seeded")

	if *code == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ac, err := (&auth.Codes{DB: gdb}).Add(ctx, *label, *code)
	if err != nil {
		log.Fatal("add access code", "error", err)
	}
	fmt.Printf("access code added: %s (%s)\n", ac.ID, ac.Label)
}
