package pipeline

import (
	"fmt"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

// DualWriter outputs each batch as both CSV and JSONL.
type DualWriter struct {
	csvWriter  *CSVWriter
	jsonWriter *JSONWriter
}

// NewDualWriter creates a dual writer rooted at dir.
func NewDualWriter(dir string) *DualWriter {
	return &DualWriter{
		csvWriter:  NewCSVWriter(dir),
		jsonWriter: NewJSONWriter(dir),
	}
}

// WriteBatch writes the CSV file first; a rejected batch produces neither file.
func (dw *DualWriter) WriteBatch(batch *models.CategoryBatch) ([]string, error) {
	csvPaths, err := dw.csvWriter.WriteBatch(batch)
	if err != nil {
		return nil, fmt.Errorf("CSV write failed: %w", err)
	}

	jsonPaths, err := dw.jsonWriter.WriteBatch(batch)
	if err != nil {
		return csvPaths, fmt.Errorf("JSON write failed: %w", err)
	}

	return append(csvPaths, jsonPaths...), nil
}

// NewWriter returns the writer for format: csv, json, or dual.
func NewWriter(format, dir string) (BatchWriter, error) {
	switch format {
	case "csv":
		return NewCSVWriter(dir), nil
	case "json":
		return NewJSONWriter(dir), nil
	case "dual":
		return NewDualWriter(dir), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
