package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"polingo/internal/config"
	"polingo/internal/db"
	"polingo/internal/logger"
	"polingo/internal/models"
	"polingo/internal/repository"
	"polingo/internal/repository/sqlite"
)

// importResult summarizes one bulk import run.
type importResult struct {
	Processed int
	Created   int
	Skipped   int
	Errors    []string
}

func main() {
	var (
		filePath = flag.String("file", "", "path to an .xlsx or .csv vocabulary file (columns: polish, english, ukrainian)")
		sheet    = flag.String("sheet", "Sheet1", "sheet name for xlsx input")
		noHeader = flag.Bool("no-header", false, "treat the first row as data, not a header")
	)
	flag.Parse()

	cfg := config.Load()
	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	logger.SetDefault(log)

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: import -file words.xlsx [-sheet Sheet1] [-no-header]")
		os.Exit(2)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer database.Close()

	words := sqlite.NewWordRepository(database.DB)

	var rows [][]string
	switch strings.ToLower(filepath.Ext(*filePath)) {
	case ".csv":
		rows, err = readCSV(*filePath)
	default:
		rows, err = readXLSX(*filePath, *sheet)
	}
	if err != nil {
		log.Error("failed to read %s: %v", *filePath, err)
		os.Exit(1)
	}

	res := importRows(context.Background(), words, rows, !*noHeader)

	fmt.Printf("processed %d rows: %d created, %d skipped\n", res.Processed, res.Created, res.Skipped)
	for _, e := range res.Errors {
		fmt.Fprintln(os.Stderr, e)
	}
	if len(res.Errors) > 0 {
		os.Exit(1)
	}
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetRows(sheet)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// importRows inserts one word per row, skipping rows whose Polish form is
// already stored.
func importRows(ctx context.Context, words repository.WordRepository, rows [][]string, skipHeader bool) *importResult {
	log := logger.Default().WithPrefix("import")
	res := &importResult{}

	for i, row := range rows {
		if skipHeader && i == 0 {
			continue
		}
		res.Processed++

		if len(row) < 3 {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: expected 3 columns (polish, english, ukrainian)", i+1))
			continue
		}
		polish := strings.ToLower(strings.TrimSpace(row[0]))
		english := strings.TrimSpace(row[1])
		ukrainian := strings.TrimSpace(row[2])
		if polish == "" {
			res.Skipped++
			continue
		}

		existing, _, err := words.FindByAnyField(ctx, polish)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if existing != nil {
			res.Skipped++
			continue
		}

		if _, err := words.Insert(ctx, models.Word{
			Polish:    polish,
			English:   english,
			Ukrainian: ukrainian,
			Enabled:   true,
		}); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		res.Created++
		log.Debug("imported word: %s", polish)
	}
	return res
}
