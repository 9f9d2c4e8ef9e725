// Command migrate applies the SQL migrations under ./migrations to the
// configured MySQL database. Direction comes from the first argument: "up"
// (the default) or "down".
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"github.com/adboards/adboards-api/internal/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	auth := cfg.DBUser
	if cfg.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
	}
	dsn := fmt.Sprintf("mysql://%s@tcp(%s:%s)/%s?multiStatements=true",
		auth, cfg.DBHost, cfg.DBPort, cfg.DBName)

	src := os.Getenv("MIGRATIONS_DIR")
	if src == "" {
		src = "file://migrations"
	}

	m, err := migrate.New(src, dsn)
	if err != nil {
		log.Fatalf("init migrator: %v", err)
	}
	defer func() { _, _ = m.Close() }()

	dir := "up"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	switch dir {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		log.Fatalf("unknown direction %q (want up or down)", dir)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migrate %s: %v", dir, err)
	}
	log.Printf("migrate %s: done", dir)
}
