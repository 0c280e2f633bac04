package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"logisticsmart/internal/config"
	"logisticsmart/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes t as ';'-separated UTF-8 with a byte order mark so that
// spreadsheet programs detect the encoding. Dates are written DD/MM/YYYY.
func WriteCSV(w io.Writer, t *domain.Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	writer.Comma = config.CSVSeparator

	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, record := range tableText(t) {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVBytes renders t with WriteCSV into memory
func CSVBytes(t *domain.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReportWriter saves rendered reports under the reports directory
type ReportWriter struct {
	dir    string
	logger *slog.Logger
}

// NewReportWriter creates a writer rooted at dir
func NewReportWriter(dir string, logger *slog.Logger) *ReportWriter {
	return &ReportWriter{dir: dir, logger: logger.With(slog.String("component", "report_writer"))}
}

// Save writes data to name, relative names resolving under the reports
// directory. The file is written to a temporary name first and renamed.
func (w *ReportWriter) Save(name string, data []byte) (string, error) {
	fullPath := w.resolvePath(name)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp := fullPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	w.logger.Info("report saved",
		slog.String("path", fullPath),
		slog.Int("bytes", len(data)))
	return fullPath, nil
}

func (w *ReportWriter) resolvePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(w.dir, name)
}
