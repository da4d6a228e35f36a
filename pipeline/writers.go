package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

var categoryDirReplacer = strings.NewReplacer("/", "-", "\\", "-", "\x00", "")

// CategoryDir returns the directory name used for a category.
func CategoryDir(name string) string {
	return categoryDirReplacer.Replace(strings.TrimSpace(name))
}

// BatchPath returns <root>/<category>/<category>_<stamp><ext>.
func BatchPath(root string, batch *models.CategoryBatch, ext string) string {
	dir := CategoryDir(batch.Category.Name)
	return filepath.Join(root, dir, dir+"_"+batch.RunStamp+ext)
}

// CSVWriter writes each batch to its own CSV file. The header comes from the
// first record's keys.
type CSVWriter struct {
	root string
}

// NewCSVWriter returns a writer rooted at dir.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{root: dir}
}

// WriteBatch validates the batch key set and writes one row per record.
func (cw *CSVWriter) WriteBatch(batch *models.CategoryBatch) ([]string, error) {
	if err := models.ValidateBatch(batch); err != nil {
		return nil, err
	}

	filename := BatchPath(cw.root, batch, ".csv")
	if err := writeFile(filename, "csv", func(f *os.File) error {
		return writeCSVRows(f, batch)
	}); err != nil {
		return nil, err
	}
	return []string{filename}, nil
}

func writeCSVRows(f *os.File, batch *models.CategoryBatch) error {
	writer := csv.NewWriter(f)
	header := batch.Records[0].Keys()
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(header))
	for _, rec := range batch.Records {
		for i, key := range header {
			row[i] = rec.Text(key)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// JSONWriter writes each batch as newline-delimited JSON.
type JSONWriter struct {
	root string
}

// NewJSONWriter returns a writer rooted at dir.
func NewJSONWriter(dir string) *JSONWriter {
	return &JSONWriter{root: dir}
}

// WriteBatch validates the batch key set and writes one JSON object per line.
func (jw *JSONWriter) WriteBatch(batch *models.CategoryBatch) ([]string, error) {
	if err := models.ValidateBatch(batch); err != nil {
		return nil, err
	}

	filename := BatchPath(jw.root, batch, ".jsonl")
	if err := writeFile(filename, "json", func(f *os.File) error {
		return writeJSONLines(f, batch)
	}); err != nil {
		return nil, err
	}
	return []string{filename}, nil
}

func writeJSONLines(f *os.File, batch *models.CategoryBatch) error {
	buffer := bufio.NewWriter(f)
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	for _, rec := range batch.Records {
		if err := encoder.Encode(rec); err != nil {
			return fmt.Errorf("encode json record: %w", err)
		}
	}
	if err := buffer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return nil
}

// writeFile creates filename and fills it with fill. A failed write removes
// the partial file.
func writeFile(filename, kind string, fill func(f *os.File) error) error {
	if err := ensureDir(filename); err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s file: %w", kind, err)
	}
	if err := fill(f); err != nil {
		f.Close()
		os.Remove(filename)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(filename)
		return fmt.Errorf("close %s file: %w", kind, err)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
