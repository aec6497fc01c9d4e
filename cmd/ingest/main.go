// Command ingest loads vocabulary packages from XLSX workbooks into the
// database, and removes packages that are no longer wanted.
//
// Importing a workbook:
//
//	ingest -file words_a1.xlsx -package builtin-a1 -level A1 -category daily -skip-header
//
// Removing a package and all of its schedule state:
//
//	ingest -remove builtin-a1
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ali-aktas/hocalingo-api/internal/config"
	"github.com/ali-aktas/hocalingo-api/internal/ingest"
	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
	"github.com/ali-aktas/hocalingo-api/internal/platform/postgres"
)

func main() {
	var (
		filePath   = flag.String("file", "", "path to the XLSX workbook to import")
		sheetName  = flag.String("sheet", "", "sheet name (default: first sheet)")
		packageID  = flag.String("package", "", "content package the items belong to")
		level      = flag.String("level", "", "default CEFR level for rows without one")
		category   = flag.String("category", "", "default category for rows without one")
		skipHeader = flag.Bool("skip-header", false, "skip the first row of the sheet")
		removeID   = flag.String("remove", "", "remove this package instead of importing")
	)
	flag.Parse()

	if err := run(*filePath, *sheetName, *packageID, *level, *category, *skipHeader, *removeID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(filePath, sheetName, packageID, level, category string, skipHeader bool, removeID string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := openDatabase(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database connection", "error", closeErr)
		}
	}()

	ctx := context.Background()
	itemStore := postgres.NewPostgresItemStore(db, log)
	importer := ingest.NewImporter(db, itemStore, log)

	if removeID != "" {
		removed, err := importer.RemovePackage(ctx, removeID)
		if err != nil {
			return fmt.Errorf("failed to remove package %q: %w", removeID, err)
		}
		fmt.Printf("Removed package %q (%d items)\n", removeID, removed)
		return nil
	}

	result, err := importer.Import(ctx, ingest.Options{
		FilePath:   filePath,
		SheetName:  sheetName,
		PackageID:  packageID,
		Level:      level,
		Category:   category,
		SkipHeader: skipHeader,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	fmt.Println(string(out))

	return nil
}
