package report

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/tomzx/drone-stats/src/drone"
	"github.com/tomzx/drone-stats/src/fetch"
	"github.com/tomzx/drone-stats/src/logger"
)

func TestFlatten_RowFilters(t *testing.T) {
	tests := []struct {
		name    string
		build   drone.Build
		wantRow bool
	}{
		{
			name:    "no procs field",
			build:   drone.Build{Branch: "main"},
			wantRow: false,
		},
		{
			name:    "empty procs",
			build:   drone.Build{Branch: "main", Procs: []drone.Proc{}},
			wantRow: false,
		},
		{
			name:    "first proc without children",
			build:   drone.Build{Branch: "main", Procs: []drone.Proc{{PID: 1}}},
			wantRow: false,
		},
		{
			name: "empty children still yields a row",
			build: drone.Build{
				Branch: "main",
				Procs:  []drone.Proc{{PID: 1, Children: []drone.Step{}}},
			},
			wantRow: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok := Flatten(&tt.build, 3)
			if ok != tt.wantRow {
				t.Fatalf("Flatten() ok = %v, want %v", ok, tt.wantRow)
			}
			if ok {
				if row.BuildNumber != 3 {
					t.Errorf("BuildNumber = %d, want 3", row.BuildNumber)
				}
				if row.Branch != "main" {
					t.Errorf("Branch = %s, want main", row.Branch)
				}
				if len(row.Steps) != 0 {
					t.Errorf("Steps = %+v, want empty", row.Steps)
				}
			}
		})
	}
}

func TestFlatten_OnlyFirstProcGroup(t *testing.T) {
	build := drone.Build{
		Branch: "main",
		Procs: []drone.Proc{
			{PID: 1, Children: []drone.Step{
				{Name: "test", State: "success", StartTime: 100, EndTime: 140},
			}},
			{PID: 2, Children: []drone.Step{
				{Name: "ignored", State: "success", StartTime: 0, EndTime: 999},
			}},
		},
	}

	row, ok := Flatten(&build, 1)
	if !ok {
		t.Fatal("Flatten() ok = false, want true")
	}
	want := []StepDuration{{Name: "test", Seconds: 40}}
	if !reflect.DeepEqual(row.Steps, want) {
		t.Errorf("Steps = %+v, want %+v", row.Steps, want)
	}
}

func newTestBuilder(t *testing.T, handler http.Handler) *Builder {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	fetcher, err := fetch.New(server.URL, "test-token", t.TempDir(), logger.NewSilentLogger())
	if err != nil {
		t.Fatalf("fetch.New() error = %v", err)
	}
	return NewBuilder(drone.NewClient(fetcher), "my-org", "my-repo", logger.NewSilentLogger())
}

func TestBuilder_Run(t *testing.T) {
	var fetched []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched = append(fetched, r.URL.Path)
		switch r.URL.Path {
		case "/api/repos/my-org/my-repo/builds":
			w.Write([]byte(`[{"number": 2}, {"number": 1}]`))
		case "/api/repos/my-org/my-repo/builds/1":
			w.Write([]byte(`{
				"branch": "main",
				"procs": [{"children": [
					{"name": "lint", "state": "skipped"},
					{"name": "test", "state": "success", "start_time": 100, "end_time": 140}
				]}]
			}`))
		case "/api/repos/my-org/my-repo/builds/2":
			w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	builder := newTestBuilder(t, handler)
	table, err := builder.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wantFetched := []string{
		"/api/repos/my-org/my-repo/builds",
		"/api/repos/my-org/my-repo/builds/1",
		"/api/repos/my-org/my-repo/builds/2",
	}
	if !reflect.DeepEqual(fetched, wantFetched) {
		t.Errorf("fetched = %v, want %v", fetched, wantFetched)
	}

	// Build 2 is shape-invalid, so only build 1 makes it into the table.
	if table.Len() != 1 {
		t.Fatalf("table.Len() = %d, want 1", table.Len())
	}

	wantColumns := []string{"build_number", "branch", "lint", "test"}
	if !reflect.DeepEqual(table.Columns(), wantColumns) {
		t.Errorf("Columns() = %v, want %v", table.Columns(), wantColumns)
	}

	wantRecord := []string{"1", "main", "0", "40"}
	if !reflect.DeepEqual(table.Records()[0], wantRecord) {
		t.Errorf("Records()[0] = %v, want %v", table.Records()[0], wantRecord)
	}
}

func TestBuilder_Run_EmptyBuildsList(t *testing.T) {
	builder := newTestBuilder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	_, err := builder.Run(context.Background())
	if !errors.Is(err, ErrNoBuilds) {
		t.Errorf("Run() error = %v, want ErrNoBuilds", err)
	}
}

func TestBuilder_Run_FetchFailureAborts(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/repos/my-org/my-repo/builds":
			w.Write([]byte(`[{"number": 2}]`))
		case "/api/repos/my-org/my-repo/builds/1":
			w.Write([]byte(`not json`))
		default:
			w.Write([]byte(`{}`))
		}
	})

	builder := newTestBuilder(t, handler)
	if _, err := builder.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want decode error")
	}
}

func TestBuilder_Run_LastN(t *testing.T) {
	var fetched []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched = append(fetched, r.URL.Path)
		if r.URL.Path == "/api/repos/my-org/my-repo/builds" {
			w.Write([]byte(`[{"number": 5}]`))
			return
		}
		w.Write([]byte(`{"branch": "main", "procs": [{"children": []}]}`))
	})

	builder := newTestBuilder(t, handler)
	builder.LastN = 2
	table, err := builder.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wantFetched := []string{
		"/api/repos/my-org/my-repo/builds",
		"/api/repos/my-org/my-repo/builds/4",
		"/api/repos/my-org/my-repo/builds/5",
	}
	if !reflect.DeepEqual(fetched, wantFetched) {
		t.Errorf("fetched = %v, want %v", fetched, wantFetched)
	}
	if table.Len() != 2 {
		t.Errorf("table.Len() = %d, want 2", table.Len())
	}
}
