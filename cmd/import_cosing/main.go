// Command import_cosing loads a COSING ingredient export into the database,
// classifying each row's safety rating on the way in.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kowalczyk-j/cosmetics-analyser/internal/config"
	"github.com/kowalczyk-j/cosmetics-analyser/internal/cosing"
	"github.com/kowalczyk-j/cosmetics-analyser/internal/db"
)

func main() {
	delimiter := flag.String("delimiter", "", "field delimiter (default: detect from header)")
	utf8 := flag.Bool("utf8", false, "treat the input as UTF-8 instead of ISO-8859-1")
	flag.Parse()

	csvPath := "cosing_data.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}

	if err := run(csvPath, *delimiter, *utf8); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(csvPath, delimiter string, utf8 bool) error {
	if strings.TrimSpace(csvPath) == "" {
		return fmt.Errorf("csv path must not be empty")
	}

	if _, err := os.Stat(csvPath); err != nil {
		return fmt.Errorf("locate csv: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	opts := cosing.Options{UTF8: utf8}
	if delimiter != "" {
		opts.Delimiter = rune(delimiter[0])
	}

	report, err := cosing.NewImporter(database).ImportFile(context.Background(), csvPath, opts)
	if err != nil {
		return fmt.Errorf("import cosing data: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Imported %d ingredients (%d rows skipped) from %s\n",
		report.Imported, report.Skipped, filepath.Base(csvPath))
	return nil
}
