package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := NewRootCommand()

	expected := []string{"check", "stamp", "history"}
	for _, name := range expected {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected subcommand %q to be registered", name)
		}
	}
}

func TestRootCommand_Help(t *testing.T) {
	root := NewRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"--help"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Help failed: %v", err)
	}
	if !strings.Contains(buf.String(), "releasegate") {
		t.Errorf("Expected help output to mention releasegate, got:\n%s", buf.String())
	}
}

func TestCheckCommand_RejectsArguments(t *testing.T) {
	root := NewRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"check", "extra-arg"})

	if err := root.Execute(); err == nil {
		t.Fatal("Expected error for unexpected positional argument")
	}
}
