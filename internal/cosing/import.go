// Package cosing ingests the EU COSING ingredient dataset and keeps the
// stored safety ratings derived from it up to date.
package cosing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gorm.io/gorm"

	applog "github.com/kowalczyk-j/cosmetics-analyser/internal/log"
	"github.com/kowalczyk-j/cosmetics-analyser/internal/safety"
	"github.com/kowalczyk-j/cosmetics-analyser/models"
)

// Column headers recognized in COSING exports. The reference number is the
// only required column; everything else falls back to an empty value.
const (
	columnRefNo       = "COSING Ref No"
	columnINCIName    = "INCI name"
	columnINNName     = "INN name"
	columnPhEurName   = "Ph. Eur. Name"
	columnDescription = "Chem/IUPAC Name / Description"
	columnFunction    = "Function"
	columnRestriction = "Restriction"
	columnUpdateDate  = "Update Date"
)

// ErrSkippedRow marks a malformed row that was counted and skipped without
// failing the batch.
var ErrSkippedRow = errors.New("cosing: row skipped")

// Options tune how the raw file is decoded. The COSING export ships as
// ISO-8859-1 with semicolon delimiters, but comma-delimited UTF-8 variants
// exist, so both knobs are deployment concerns rather than contracts.
type Options struct {
	// Delimiter overrides field separation. Zero means detect from the
	// header line (semicolon when present, comma otherwise).
	Delimiter rune
	// UTF8 skips the default ISO-8859-1 decoding.
	UTF8 bool
}

// Report summarizes one import sweep.
type Report struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Importer upserts IngredientINCI records from COSING exports.
type Importer struct {
	db *gorm.DB
}

// NewImporter returns an Importer bound to the given database handle.
func NewImporter(db *gorm.DB) *Importer {
	return &Importer{db: db}
}

// ImportFile reads and imports a COSING export from disk.
func (i *Importer) ImportFile(ctx context.Context, path string, opts Options) (Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open cosing file: %w", err)
	}
	defer file.Close()

	return i.Import(ctx, file, opts)
}

// Import reads rows from r and upserts one ingredient per valid row, keyed
// by the COSING reference number. A malformed row is logged, counted as
// skipped, and never aborts the batch; rows committed before a failure stay
// committed.
func (i *Importer) Import(ctx context.Context, r io.Reader, opts Options) (Report, error) {
	rows, unparsed, err := readRows(r, opts)
	if err != nil {
		return Report{}, err
	}
	if unparsed > 0 {
		applog.Debug(ctx, "skipping unparseable cosing rows", "rows", unparsed)
	}

	report := Report{Skipped: unparsed}
	for idx, row := range rows {
		ingredient, err := buildIngredient(row)
		if err != nil {
			applog.Debug(ctx, "skipping cosing row", "row", idx+2, "error", err)
			report.Skipped++
			continue
		}

		if err := i.upsert(ctx, ingredient); err != nil {
			applog.Error(ctx, "failed to upsert cosing ingredient", "ref_no", ingredient.CosingRefNo, "error", err)
			report.Skipped++
			continue
		}
		report.Imported++
	}

	applog.Info(ctx, "cosing import finished", "imported", report.Imported, "skipped", report.Skipped)
	return report, nil
}

func (i *Importer) upsert(ctx context.Context, ingredient models.IngredientINCI) error {
	return i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.IngredientINCI
		err := tx.First(&existing, "cosing_ref_no = ?", ingredient.CosingRefNo).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&ingredient).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&existing).Updates(map[string]any{
			"inci_name":               ingredient.INCIName,
			"common_name":             ingredient.CommonName,
			"description":             ingredient.Description,
			"function":                ingredient.Function,
			"restrictions":            ingredient.Restrictions,
			"update_date":             ingredient.UpdateDate,
			"safety_rating":           ingredient.SafetyRating,
			"restriction_description": ingredient.RestrictionDescription,
		}).Error
	})
}

// buildIngredient maps one parsed row to a classified ingredient record.
// The common name falls back from the INN column to the Ph. Eur. column.
func buildIngredient(row map[string]string) (models.IngredientINCI, error) {
	raw, ok := row[columnRefNo]
	if !ok || strings.TrimSpace(raw) == "" {
		return models.IngredientINCI{}, fmt.Errorf("%w: missing reference number", ErrSkippedRow)
	}

	refNo, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return models.IngredientINCI{}, fmt.Errorf("%w: invalid reference number %q", ErrSkippedRow, raw)
	}

	commonName := strings.TrimSpace(row[columnINNName])
	if commonName == "" {
		commonName = strings.TrimSpace(row[columnPhEurName])
	}

	function := strings.TrimSpace(row[columnFunction])
	restrictions := strings.TrimSpace(row[columnRestriction])

	return models.IngredientINCI{
		CosingRefNo:            refNo,
		INCIName:               strings.TrimSpace(row[columnINCIName]),
		CommonName:             commonName,
		Description:            strings.TrimSpace(row[columnDescription]),
		Function:               function,
		Restrictions:           restrictions,
		UpdateDate:             strings.TrimSpace(row[columnUpdateDate]),
		SafetyRating:           string(safety.Classify(function, restrictions)),
		RestrictionDescription: safety.DescribeRestrictions(restrictions),
	}, nil
}

// readRows decodes the input, detects the delimiter if needed, and returns
// one header-keyed map per data row. A row the CSV parser rejects is counted
// as skipped and never aborts the batch.
func readRows(r io.Reader, opts Options) ([]map[string]string, int, error) {
	if !opts.UTF8 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}

	// Delimiter detection needs the raw header line, so buffer the input.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read cosing input: %w", err)
	}

	delimiter := opts.Delimiter
	if delimiter == 0 {
		header, _, _ := strings.Cut(string(data), "\n")
		delimiter = ','
		if strings.Count(header, ";") > strings.Count(header, ",") {
			delimiter = ';'
		}
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.Comma = delimiter

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, errors.New("cosing csv is empty")
		}
		return nil, 0, fmt.Errorf("read cosing header: %w", err)
	}
	for idx, key := range header {
		header[idx] = strings.TrimSpace(key)
	}

	var records []map[string]string
	skipped := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.Reader resumes at the next record after a parse error.
			skipped++
			continue
		}
		if len(row) == 0 {
			continue
		}

		record := make(map[string]string, len(header))
		for idx, key := range header {
			if idx >= len(row) {
				continue
			}
			record[key] = strings.TrimSpace(row[idx])
		}
		records = append(records, record)
	}
	return records, skipped, nil
}
