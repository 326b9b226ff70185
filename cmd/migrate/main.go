package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
	"github.com/joho/godotenv"
)

// Applies db/migrations/*.sql in filename order, tracking applied files in
// schema_migrations.
func main() {
	var dirFlag string
	flag.StringVar(&dirFlag, "dir", "db/migrations", "directory holding *.sql migration files")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to open database: %w", err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}

	if _, err := db.Exec(`create table if not exists schema_migrations (
		name text primary key,
		applied_at timestamptz not null default now()
	)`); err != nil {
		exitWithError(fmt.Errorf("failed to prepare migrations table: %w", err))
	}

	files, err := filepath.Glob(filepath.Join(dirFlag, "*.sql"))
	if err != nil {
		exitWithError(err)
	}
	sort.Strings(files)
	if len(files) == 0 {
		exitWithError(fmt.Errorf("no migration files in %s", dirFlag))
	}

	for _, file := range files {
		name := filepath.Base(file)

		var applied bool
		if err := db.QueryRow(`select exists(select 1 from schema_migrations where name = $1)`, name).Scan(&applied); err != nil {
			exitWithError(fmt.Errorf("failed to check %s: %w", name, err))
		}
		if applied {
			continue
		}

		body, err := os.ReadFile(file)
		if err != nil {
			exitWithError(fmt.Errorf("failed to read %s: %w", name, err))
		}

		tx, err := db.Begin()
		if err != nil {
			exitWithError(fmt.Errorf("failed to begin %s: %w", name, err))
		}
		if _, err := tx.Exec(string(body)); err != nil {
			_ = tx.Rollback()
			exitWithError(fmt.Errorf("failed to apply %s: %w", name, err))
		}
		if _, err := tx.Exec(`insert into schema_migrations (name) values ($1)`, name); err != nil {
			_ = tx.Rollback()
			exitWithError(fmt.Errorf("failed to record %s: %w", name, err))
		}
		if err := tx.Commit(); err != nil {
			exitWithError(fmt.Errorf("failed to commit %s: %w", name, err))
		}
		fmt.Printf("applied %s\n", name)
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
