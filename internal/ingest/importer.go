package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
	"github.com/ali-aktas/hocalingo-api/internal/store"
)

// Workbook column layout. Text and translation are required; the rest are
// optional per-row values.
const (
	colText = iota
	colTranslation
	colExamples
	colPronunciation
	colLevel
	colCategory
)

// ErrNoItems is returned when a workbook yields no importable rows.
var ErrNoItems = errors.New("workbook contains no importable rows")

// Options configures a single import run.
type Options struct {
	// FilePath is the workbook to read. Required.
	FilePath string

	// SheetName selects the sheet to import. Empty means the first sheet.
	SheetName string

	// PackageID is the content package the imported items land in. Required.
	PackageID string

	// Level and Category are applied to rows that do not carry their own
	// values in columns E and F.
	Level    string
	Category string

	// SkipHeader skips the first row of the sheet.
	SkipHeader bool
}

// Validate checks that the options are usable.
func (o Options) Validate() error {
	if strings.TrimSpace(o.FilePath) == "" {
		return errors.New("file path cannot be empty")
	}
	if strings.TrimSpace(o.PackageID) == "" {
		return errors.New("package ID cannot be empty")
	}
	return nil
}

// Result summarizes an import run. Errors holds one message per rejected
// row; a populated Errors slice does not mean the import failed.
type Result struct {
	PackageID string   `json:"package_id"`
	RowsRead  int      `json:"rows_read"`
	Imported  int      `json:"imported"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors,omitempty"`
}

// Importer reads workbooks and writes their rows as one content package.
type Importer struct {
	db     *sql.DB
	writer store.ItemWriter
	logger *slog.Logger
}

// NewImporter creates an Importer backed by the given database handle and
// item writer.
func NewImporter(db *sql.DB, writer store.ItemWriter, log *slog.Logger) *Importer {
	if db == nil {
		panic("db cannot be nil")
	}
	if writer == nil {
		panic("writer cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Importer{
		db:     db,
		writer: writer,
		logger: log.With(slog.String("component", "ingest_importer")),
	}
}

// Import parses the workbook and saves every valid row in one transaction.
// Row-level problems are reported in the result; the transaction only fails
// when the batch itself cannot be written.
func (im *Importer) Import(ctx context.Context, opts Options) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, im.logger)

	if err := opts.Validate(); err != nil {
		log.Warn("invalid import options",
			slog.String("error", err.Error()))
		return nil, err
	}

	items, result, err := ParseWorkbook(opts)
	if err != nil {
		log.Error("failed to parse workbook",
			slog.String("file", opts.FilePath),
			slog.String("error", err.Error()))
		return nil, err
	}

	if len(items) == 0 {
		log.Warn("workbook yielded no importable rows",
			slog.String("file", opts.FilePath),
			slog.Int("rows_read", result.RowsRead))
		return result, ErrNoItems
	}

	err = store.RunInTransaction(ctx, im.db, func(ctx context.Context, tx *sql.Tx) error {
		return im.writer.WithTxWriter(tx).CreateMultiple(ctx, items)
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("package %q already contains rows from this workbook: %w",
				opts.PackageID, err)
		}
		return nil, fmt.Errorf("failed to save imported items: %w", err)
	}

	result.Imported = len(items)

	log.Info("imported vocabulary package",
		slog.String("package_id", opts.PackageID),
		slog.Int("rows_read", result.RowsRead),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped))

	return result, nil
}

// RemovePackage deletes every item in the package, along with its schedule
// state, and returns how many items were removed.
func (im *Importer) RemovePackage(ctx context.Context, packageID string) (int64, error) {
	log := logger.FromContextOrDefault(ctx, im.logger)

	var removed int64
	err := store.RunInTransaction(ctx, im.db, func(ctx context.Context, tx *sql.Tx) error {
		var txErr error
		removed, txErr = im.writer.WithTxWriter(tx).RemovePackage(ctx, packageID)
		return txErr
	})
	if err != nil {
		return 0, err
	}

	log.Info("removed vocabulary package",
		slog.String("package_id", packageID),
		slog.Int64("removed", removed))

	return removed, nil
}

// ParseWorkbook reads the configured sheet and converts its rows into items.
// The returned result carries row counts and per-row errors; items holds only
// the rows that passed validation.
func ParseWorkbook(opts Options) ([]*domain.Item, *Result, error) {
	f, err := excelize.OpenFile(opts.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook %q: %w", opts.FilePath, err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := opts.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	result := &Result{
		PackageID: opts.PackageID,
		Errors:    make([]string, 0),
	}
	items := make([]*domain.Item, 0, len(rows))

	for i, row := range rows {
		if i == 0 && opts.SkipHeader {
			continue
		}

		result.RowsRead++

		if isBlankRow(row) {
			result.Skipped++
			continue
		}

		item, err := buildItem(row, opts)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		items = append(items, item)
	}

	return items, result, nil
}

// buildItem converts one spreadsheet row into a validated item.
func buildItem(row []string, opts Options) (*domain.Item, error) {
	text := cellAt(row, colText)
	translation := cellAt(row, colTranslation)

	item, err := domain.NewItem(text, translation, opts.PackageID)
	if err != nil {
		return nil, err
	}

	item.Examples = splitExamples(cellAt(row, colExamples))
	item.Pronunciation = cellAt(row, colPronunciation)

	item.Level = opts.Level
	if level := cellAt(row, colLevel); level != "" {
		item.Level = level
	}

	item.Category = opts.Category
	if category := cellAt(row, colCategory); category != "" {
		item.Category = category
	}

	return item, nil
}

// cellAt returns the trimmed cell value, tolerating short rows. Excelize
// drops trailing empty cells, so rows frequently come back ragged.
func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// splitExamples breaks a cell into individual example sentences. Semicolons
// and line breaks both act as separators.
func splitExamples(cell string) []string {
	if cell == "" {
		return nil
	}

	parts := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ';' || r == '\n'
	})

	examples := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			examples = append(examples, trimmed)
		}
	}
	if len(examples) == 0 {
		return nil
	}
	return examples
}

// isBlankRow reports whether every cell in the row is empty.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
