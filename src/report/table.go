package report

import "strconv"

// Column names present in every row.
const (
	ColumnBuildNumber = "build_number"
	ColumnBranch      = "branch"
)

// StepDuration is one step's flattened timing, in seconds.
type StepDuration struct {
	Name    string
	Seconds int64
}

// Row is one build reduced to its per-step durations.
type Row struct {
	BuildNumber int
	Branch      string
	Steps       []StepDuration
}

// Table collects report rows and tracks the union of their columns in
// first-encountered order. Rows are kept in append order; the builder
// appends in ascending build-number order.
type Table struct {
	columns []string
	seen    map[string]bool
	rows    []Row
}

// NewTable creates an empty table with the fixed leading columns.
func NewTable() *Table {
	t := &Table{
		seen: make(map[string]bool),
	}
	t.addColumn(ColumnBuildNumber)
	t.addColumn(ColumnBranch)
	return t
}

// Append adds a row, extending the column set with any step names not seen
// before.
func (t *Table) Append(row Row) {
	for _, step := range row.Steps {
		t.addColumn(step.Name)
	}
	t.rows = append(t.rows, row)
}

func (t *Table) addColumn(name string) {
	if t.seen[name] {
		return
	}
	t.seen[name] = true
	t.columns = append(t.columns, name)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Columns returns the header: build_number, branch, then every step name in
// the order it was first encountered.
func (t *Table) Columns() []string {
	return t.columns
}

// Rows returns the collected rows in append order.
func (t *Table) Rows() []Row {
	return t.rows
}

// StepColumns returns the step-name columns only.
func (t *Table) StepColumns() []string {
	return t.columns[2:]
}

// Records renders the rows against the full column set. Cells for steps a
// build never ran are empty strings.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.rows))
	for _, row := range t.rows {
		byName := make(map[string]int64, len(row.Steps))
		for _, step := range row.Steps {
			byName[step.Name] = step.Seconds
		}

		record := make([]string, 0, len(t.columns))
		record = append(record, strconv.Itoa(row.BuildNumber), row.Branch)
		for _, col := range t.columns[2:] {
			if seconds, ok := byName[col]; ok {
				record = append(record, strconv.FormatInt(seconds, 10))
			} else {
				record = append(record, "")
			}
		}
		records = append(records, record)
	}
	return records
}
