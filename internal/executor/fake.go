package executor

import (
	"context"
	"fmt"
	"strings"
)

// FakeRunner is a CommandRunner for tests. Each expected invocation is keyed
// by the command line ("name arg1 arg2 ...") and mapped to a canned result.
type FakeRunner struct {
	// Results maps command lines to canned results.
	Results map[string]Result

	// Errs maps command lines to errors (command could not be run).
	Errs map[string]error

	// Calls records every command line in invocation order.
	Calls []string
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Results: make(map[string]Result),
		Errs:    make(map[string]error),
	}
}

// Stub registers a canned result for a command line.
func (f *FakeRunner) Stub(cmdline string, res Result) {
	f.Results[cmdline] = res
}

// StubErr registers an error for a command line.
func (f *FakeRunner) StubErr(cmdline string, err error) {
	f.Errs[cmdline] = err
}

// Run returns the canned result for the invocation, or an error if the
// invocation was not stubbed.
func (f *FakeRunner) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	cmdline := strings.Join(append([]string{name}, args...), " ")
	f.Calls = append(f.Calls, cmdline)

	if err, ok := f.Errs[cmdline]; ok {
		return Result{}, err
	}
	if res, ok := f.Results[cmdline]; ok {
		return res, nil
	}
	return Result{}, fmt.Errorf("unexpected command: %q", cmdline)
}
