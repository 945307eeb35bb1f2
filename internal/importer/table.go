package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxImportRows = 5000

var (
	ErrNoData      = errors.New("file has no data rows (the first row is the header)")
	ErrTooManyRows = fmt.Errorf("file has more than %d data rows", maxImportRows)
)

var (
	utf8BOM        = []byte{0xEF, 0xBB, 0xBF}
	xlsxExtensions = map[string]bool{".xlsx": true, ".xlsm": true}
	csvSeparators  = []rune{';', ',', '\t'}
)

// ReadFile reads the table in path. Excel workbooks are read from their
// first sheet, everything else as delimited text.
func ReadFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f, path)
}

// ReadTable reads a header row plus data rows from r. name only selects the
// format by extension.
func ReadTable(r io.Reader, name string) ([][]string, error) {
	var (
		rows [][]string
		err  error
	)
	if xlsxExtensions[strings.ToLower(filepath.Ext(name))] {
		rows, err = readWorkbook(r)
	} else {
		rows, err = readDelimited(r)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, ErrNoData
	}
	if len(rows)-1 > maxImportRows {
		return nil, ErrTooManyRows
	}
	return rows, nil
}

func readWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// readDelimited reads CSV exported by spreadsheets and form tools. The
// separator is taken from the header line.
func readDelimited(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffSeparator(data)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return rows, nil
}

func sniffSeparator(data []byte) rune {
	header, _ := bufio.NewReader(bytes.NewReader(data)).ReadString('\n')
	best, bestCount := ',', 0
	for _, sep := range csvSeparators {
		if n := strings.Count(header, string(sep)); n > bestCount {
			best, bestCount = sep, n
		}
	}
	return best
}

// headerIndex maps each field to the column whose header matches one of its
// aliases, case-insensitively. Unmatched fields map to -1.
func headerIndex(header []string, aliases map[string][]string) map[string]int {
	idx := make(map[string]int, len(aliases))
	for field := range aliases {
		idx[field] = -1
	}
	for i, h := range header {
		h = normalizeHeader(h)
		for field, names := range aliases {
			if idx[field] >= 0 {
				continue
			}
			for _, name := range names {
				if h == name {
					idx[field] = i
					break
				}
			}
		}
	}
	return idx
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer("_", " ", "-", " ").Replace(h)
	return strings.Join(strings.Fields(h), " ")
}

// cell returns the trimmed value of column i, or "" when the row is short
// or the column is absent.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func missingColumns(idx map[string]int, required []string) error {
	var missing []string
	for _, field := range required {
		if idx[field] < 0 {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("header is missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
