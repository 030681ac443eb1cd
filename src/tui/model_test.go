package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "my-repo.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write report: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeReport(t, "build_number,branch,test\n1,main,40\n2,main,38\n")

	header, records, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if len(header) != 3 || header[2] != "test" {
		t.Errorf("header = %v", header)
	}
	if len(records) != 2 || records[1][2] != "38" {
		t.Errorf("records = %v", records)
	}
}

func TestLoadCSV_Empty(t *testing.T) {
	path := writeReport(t, "")
	if _, _, err := LoadCSV(path); err == nil {
		t.Fatal("LoadCSV() error = nil, want error for empty file")
	}
}

func TestLoadCSV_Missing(t *testing.T) {
	if _, _, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("LoadCSV() error = nil, want error for missing file")
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel("my-repo.csv", []string{"build_number", "branch"}, [][]string{
		{"1", "main"},
		{"2", "feature"},
	})

	view := m.View()
	if !strings.Contains(view, "my-repo.csv") {
		t.Error("view missing title")
	}
	if !strings.Contains(view, "build_number") {
		t.Error("view missing header")
	}
	if !strings.Contains(view, "feature") {
		t.Error("view missing row data")
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := NewModel("r.csv", []string{"build_number"}, [][]string{{"1"}})

	for _, key := range []string{"q", "esc", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			var msg tea.KeyMsg
			switch key {
			case "esc":
				msg = tea.KeyMsg{Type: tea.KeyEsc}
			case "ctrl+c":
				msg = tea.KeyMsg{Type: tea.KeyCtrlC}
			default:
				msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
			}

			_, cmd := m.Update(msg)
			if cmd == nil {
				t.Fatalf("Update(%s) returned no command, want tea.Quit", key)
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("Update(%s) command = %T, want tea.QuitMsg", key, cmd())
			}
		})
	}
}

func TestModel_RaggedRecords(t *testing.T) {
	// Rows shorter than the header must not panic; missing cells are blank.
	m := NewModel("r.csv", []string{"build_number", "branch", "test"}, [][]string{
		{"1", "main"},
	})
	if view := m.View(); view == "" {
		t.Error("empty view")
	}
}
