package checks

import (
	"context"
	"fmt"

	"github.com/harrison/releasegate/internal/todoscan"
)

// TodoCheck counts TODO markers in files matching one glob pattern.
// It is informational: the counts are reported but never gate the release.
type TodoCheck struct {
	env     *Env
	pattern string
}

// NewTodoCheck creates a TODO count check for the given file pattern.
func NewTodoCheck(env *Env, pattern string) *TodoCheck {
	return &TodoCheck{env: env, pattern: pattern}
}

func (c *TodoCheck) Name() string { return "todo-" + c.pattern }

func (c *TodoCheck) Label() string { return fmt.Sprintf("TODO count (%q)", c.pattern) }

// Run scans the tree and reports the bug-referenced and unreferenced counts.
func (c *TodoCheck) Run(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counts, err := todoscan.Scan(c.env.RepoRoot, c.pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: scan for TODO markers: %v", ErrInfrastructure, err)
	}

	return &Result{
		Name:          c.Name(),
		Label:         c.Label(),
		Passed:        true,
		Informational: true,
		Details: []string{
			fmt.Sprintf("without bug: %d; with bug: %d", counts.WithoutBug, counts.WithBug),
		},
	}, nil
}
