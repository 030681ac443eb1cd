// Package report reduces a range of Drone builds into a flat table of
// per-step durations.
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomzx/drone-stats/src/drone"
	"github.com/tomzx/drone-stats/src/logger"
)

// ErrNoBuilds is returned when the builds list for a repository is empty.
var ErrNoBuilds = errors.New("no builds found")

// Builder drives the Drone client across a contiguous build range and folds
// each build into a table row.
type Builder struct {
	client *drone.Client
	log    logger.Logger
	org    string
	repo   string

	// LastN, when positive, bounds the range to the most recent N builds
	// instead of starting at build 1.
	LastN int
}

// NewBuilder creates a report builder for one repository.
func NewBuilder(client *drone.Client, org, repo string, log logger.Logger) *Builder {
	return &Builder{
		client: client,
		log:    log,
		org:    org,
		repo:   repo,
	}
}

// Run discovers the latest build number, fetches every build in the range
// sequentially, and assembles the report table. Any fetch or decode failure
// aborts the run; builds without usable step data are skipped silently.
func (b *Builder) Run(ctx context.Context) (*Table, error) {
	summaries, err := b.client.Builds(ctx, b.org, b.repo)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, fmt.Errorf("%w for %s/%s", ErrNoBuilds, b.org, b.repo)
	}

	latest := summaries[0].Number
	if latest < 1 {
		return nil, fmt.Errorf("invalid latest build number %d for %s/%s", latest, b.org, b.repo)
	}
	b.log.Debug("Last build number is %d", latest)

	first := 1
	if b.LastN > 0 && latest-b.LastN+1 > first {
		first = latest - b.LastN + 1
	}

	table := NewTable()
	for number := first; number <= latest; number++ {
		build, err := b.client.Build(ctx, b.org, b.repo, number)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch build %d: %w", number, err)
		}

		row, ok := Flatten(build, number)
		if !ok {
			b.log.Debug("Skipping build %d: no step data", number)
			continue
		}
		table.Append(row)
	}

	return table, nil
}

// Flatten reduces one build to a row of step durations. It reports false
// when the build has no usable process tree: no procs field, an empty procs
// list, or a first proc without a children field. Only the first process
// group is considered.
func Flatten(build *drone.Build, number int) (Row, bool) {
	if build.Procs == nil {
		return Row{}, false
	}
	if len(build.Procs) == 0 {
		return Row{}, false
	}
	if build.Procs[0].Children == nil {
		return Row{}, false
	}

	children := build.Procs[0].Children
	steps := make([]StepDuration, 0, len(children))
	for _, child := range children {
		steps = append(steps, StepDuration{
			Name:    child.Name,
			Seconds: child.Duration(),
		})
	}

	return Row{
		BuildNumber: number,
		Branch:      build.Branch,
		Steps:       steps,
	}, true
}
