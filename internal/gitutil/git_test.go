package gitutil

import (
	"context"
	"strings"
	"testing"

	"github.com/harrison/releasegate/internal/executor"
)

func TestRepoRoot(t *testing.T) {
	fake := executor.NewFakeRunner()
	fake.Stub("git rev-parse --show-toplevel", executor.Result{Stdout: "/home/dev/sdk\n"})

	git := New(fake)
	root, err := git.RepoRoot(context.Background())
	if err != nil {
		t.Fatalf("RepoRoot failed: %v", err)
	}
	if root != "/home/dev/sdk" {
		t.Errorf("Expected root /home/dev/sdk, got %q", root)
	}
}

func TestRepoRoot_OutsideRepository(t *testing.T) {
	fake := executor.NewFakeRunner()
	fake.Stub("git rev-parse --show-toplevel", executor.Result{
		ExitCode: 128,
		Stderr:   "fatal: not a git repository (or any of the parent directories): .git\n",
	})

	git := New(fake)
	_, err := git.RepoRoot(context.Background())
	if err == nil {
		t.Fatal("Expected error outside a repository")
	}
	if !strings.Contains(err.Error(), "not inside a git repository") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestShortSHA(t *testing.T) {
	fake := executor.NewFakeRunner()
	fake.Stub("git rev-parse --short HEAD", executor.Result{Stdout: "abc1234\n"})

	git := New(fake)
	sha, err := git.ShortSHA(context.Background())
	if err != nil {
		t.Fatalf("ShortSHA failed: %v", err)
	}
	if sha != "abc1234" {
		t.Errorf("Expected abc1234, got %q", sha)
	}
}

func TestCommitDate_PassedThroughVerbatim(t *testing.T) {
	fake := executor.NewFakeRunner()
	fake.Stub("git show -s --format=%ci HEAD", executor.Result{
		Stdout: "2021-01-01 00:00:00 +0000\n",
	})

	git := New(fake)
	date, err := git.CommitDate(context.Background())
	if err != nil {
		t.Fatalf("CommitDate failed: %v", err)
	}
	if date != "2021-01-01 00:00:00 +0000" {
		t.Errorf("Expected verbatim date, got %q", date)
	}
}

func TestShortSHA_Failure(t *testing.T) {
	fake := executor.NewFakeRunner()
	fake.Stub("git rev-parse --short HEAD", executor.Result{
		ExitCode: 128,
		Stderr:   "fatal: ambiguous argument 'HEAD'\n",
	})

	git := New(fake)
	if _, err := git.ShortSHA(context.Background()); err == nil {
		t.Fatal("Expected error for failing git rev-parse")
	}
}
