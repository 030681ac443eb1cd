package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomzx/drone-stats/src/report"
)

func TestCSVSink_Write(t *testing.T) {
	table := report.NewTable()
	table.Append(report.Row{
		BuildNumber: 1,
		Branch:      "main",
		Steps: []report.StepDuration{
			{Name: "lint", Seconds: 0},
			{Name: "test", Seconds: 40},
		},
	})
	table.Append(report.Row{
		BuildNumber: 2,
		Branch:      "feature",
		Steps: []report.StepDuration{
			{Name: "deploy", Seconds: 120},
		},
	})

	path := filepath.Join(t.TempDir(), "my-repo.csv")
	sink := NewCSVSink(path)
	if sink.Name() != "csv" {
		t.Errorf("Name() = %s, want csv", sink.Name())
	}

	if err := sink.Write(context.Background(), "my-repo", table); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	want := "build_number,branch,lint,test,deploy\n" +
		"1,main,0,40,\n" +
		"2,feature,,,120\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}
}

func TestCSVSink_WriteEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	sink := NewCSVSink(path)

	if err := sink.Write(context.Background(), "empty", report.NewTable()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(data) != "build_number,branch\n" {
		t.Errorf("output = %q", data)
	}
}
