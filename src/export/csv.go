package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/tomzx/drone-stats/src/report"
)

// CSVSink writes the report as a comma-separated file with the table's
// column union as the header and no leading index column.
type CSVSink struct {
	path string
}

// NewCSVSink creates a CSV sink writing to the given path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Name implements Sink.
func (s *CSVSink) Name() string {
	return "csv"
}

// Path returns the output file path.
func (s *CSVSink) Path() string {
	return s.path
}

// Write implements Sink.
func (s *CSVSink) Write(ctx context.Context, repository string, table *report.Table) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, record := range table.Records() {
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", s.path, err)
	}
	return f.Close()
}

// Close implements Sink.
func (s *CSVSink) Close() error {
	return nil
}
