// Package export writes a finished report table to its destinations.
package export

import (
	"context"

	"github.com/tomzx/drone-stats/src/report"
)

// Sink persists a report table somewhere: a CSV file, a database, a topic.
type Sink interface {
	// Name identifies the sink in log output.
	Name() string

	// Write persists the whole table. Called once, after the table is
	// fully assembled.
	Write(ctx context.Context, repository string, table *report.Table) error

	// Close releases any held connections.
	Close() error
}
