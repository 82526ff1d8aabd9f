package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/example/leitnerbot/internal/database"
	"github.com/example/leitnerbot/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath      string // Path to the Excel or CSV file
	FrontColumn   string // Column with the prompt side
	BackColumn    string // Column with the answer side
	ExampleColumn string // Column with an optional usage example, empty to ignore
	SheetName     string // Name of the sheet to import, empty for the first sheet
	StartRow      int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		FrontColumn:   "A",
		BackColumn:    "B",
		ExampleColumn: "C",
		StartRow:      2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int // Rows whose front already exists for the user
	Errors         []string
}

var errEmptyRow = errors.New("empty row")

// ImportCards imports cards for a user from an Excel or CSV file.
// Each new card gets its initial schedule, due immediately.
func ImportCards(ctx context.Context, db *sqlx.DB, userID int64, config ImportConfig) (*ImportResult, error) {
	if config.StartRow < 1 {
		config.StartRow = 1
	}

	var (
		rows [][]string
		err  error
	)
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	imp := &importer{
		db:        db,
		userID:    userID,
		config:    config,
		cards:     database.NewCardRepository(db),
		schedules: database.NewScheduleRepository(db),
		seen:      make(map[string]bool),
		result:    &ImportResult{Errors: make([]string, 0)},
	}

	for i, row := range rows {
		rowNum := i + 1
		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}
		if err := ctx.Err(); err != nil {
			return imp.result, err
		}

		err := imp.processRow(ctx, row)
		if errors.Is(err, errEmptyRow) {
			continue
		}
		imp.result.TotalProcessed++
		if err != nil {
			imp.result.Errors = append(imp.result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	log.WithFields(log.Fields{
		"user_id":   userID,
		"file":      config.FilePath,
		"processed": imp.result.TotalProcessed,
		"created":   imp.result.Created,
		"skipped":   imp.result.Skipped,
		"errors":    len(imp.result.Errors),
	}).Info("Cards imported")

	return imp.result, nil
}

// readExcel returns all rows of the sheet
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV returns all records of the file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type importer struct {
	db        *sqlx.DB
	userID    int64
	config    ImportConfig
	cards     *database.CardRepository
	schedules *database.ScheduleRepository
	seen      map[string]bool // Fronts created during this import
	result    *ImportResult
}

// processRow creates a card from a single row
func (imp *importer) processRow(ctx context.Context, row []string) error {
	front := cell(row, imp.config.FrontColumn)
	back := cell(row, imp.config.BackColumn)
	example := cell(row, imp.config.ExampleColumn)

	if front == "" && back == "" && example == "" {
		return errEmptyRow
	}
	if front == "" {
		return fmt.Errorf("front cannot be empty")
	}
	if back == "" {
		return fmt.Errorf("back cannot be empty")
	}

	if imp.seen[front] {
		imp.result.Skipped++
		return nil
	}
	_, err := imp.cards.GetByFront(ctx, imp.userID, front)
	switch {
	case err == nil:
		imp.result.Skipped++
		return nil
	case !errors.Is(err, database.ErrNotFound):
		return err
	}

	card := &models.Card{
		UserID:    imp.userID,
		Front:     front,
		Back:      back,
		Example:   example,
		CreatedAt: time.Now().UTC(),
	}
	err = database.WithTx(ctx, imp.db, func(tx *sqlx.Tx) error {
		if err := imp.cards.Create(ctx, tx, card); err != nil {
			return err
		}
		_, err := imp.schedules.Ensure(ctx, tx, card.ID, imp.userID, card.CreatedAt)
		return err
	})
	if err != nil {
		return err
	}

	imp.seen[front] = true
	imp.result.Created++
	return nil
}

// cell returns the trimmed value of a lettered column, or "" when the row is too short
func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	idx := columnToIndex(column)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	idx, err := excelize.ColumnNameToNumber(strings.ToUpper(strings.TrimSpace(column)))
	if err != nil {
		return -1
	}
	return idx - 1
}

// WriteTemplate saves an empty workbook with the default header row
func WriteTemplate(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]string{"Front", "Back", "Example"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A2", &[]string{"hello", "привет", "Hello, world!"}); err != nil {
		return fmt.Errorf("failed to write sample row: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	return nil
}
