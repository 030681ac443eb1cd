package drone

// StateSkipped is the sentinel step state meaning the step never executed.
// Skipped steps have a duration of zero by convention, whatever their
// timestamps say.
const StateSkipped = "skipped"

// BuildSummary is one element of the builds-list response. Only the build
// number is needed to discover the report range.
type BuildSummary struct {
	Number int    `json:"number"`
	Branch string `json:"branch"`
	Status string `json:"status"`
	Event  string `json:"event"`
}

// Build is a single build with its process tree. Procs is nil when the
// response carried no "procs" field at all, as opposed to an empty list.
type Build struct {
	Number int    `json:"number"`
	Branch string `json:"branch"`
	Status string `json:"status"`
	Procs  []Proc `json:"procs"`
}

// Proc is a top-level process group within a build. Children is nil when the
// "children" field is absent.
type Proc struct {
	PID      int    `json:"pid"`
	Name     string `json:"name"`
	State    string `json:"state"`
	Children []Step `json:"children"`
}

// Step is one named unit of work within a process group.
type Step struct {
	PID       int    `json:"pid"`
	Name      string `json:"name"`
	State     string `json:"state"`
	StartTime int64  `json:"start_time"`
	EndTime   int64  `json:"end_time"`
}

// Duration returns the step's duration in seconds. Skipped steps are exactly
// zero; otherwise end minus start, with negative values passed through.
func (s Step) Duration() int64 {
	if s.State == StateSkipped {
		return 0
	}
	return s.EndTime - s.StartTime
}

// LogLine is one entry of a proc's log output.
type LogLine struct {
	Proc string `json:"proc"`
	Pos  int    `json:"pos"`
	Out  string `json:"out"`
	Time int64  `json:"time"`
}
