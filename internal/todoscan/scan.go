// Package todoscan counts TODO markers across the repository tree.
//
// Markers are partitioned into those referencing a bug ("b/<id>" links) and
// those without one. Plain source files are scanned line by line; markdown
// files are parsed so markers are found wherever they sit in the document,
// prose and fenced code samples alike.
package todoscan

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	todoRe = regexp.MustCompile(`(?i)todo`)
	bugRe  = regexp.MustCompile(`b/`)
)

// Counts partitions TODO-bearing lines by whether they reference a bug.
type Counts struct {
	WithBug    int
	WithoutBug int
}

// Total returns the overall number of TODO-bearing lines.
func (c Counts) Total() int {
	return c.WithBug + c.WithoutBug
}

// skippedDirs are never descended into.
var skippedDirs = map[string]struct{}{
	".git":         {},
	".releasegate": {},
	"Pods":         {},
}

// Scan walks root and counts TODO-bearing lines in every file whose base
// name matches pattern (a filepath.Match glob such as "*.swift").
func Scan(root, pattern string) (Counts, error) {
	var counts Counts

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skip := skippedDirs[d.Name()]; skip && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		matched, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}
		if !matched {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var c Counts
		if isMarkdown(d.Name()) {
			c = countMarkdown(data)
		} else {
			c = countLines(string(data))
		}
		counts.WithBug += c.WithBug
		counts.WithoutBug += c.WithoutBug
		return nil
	})

	return counts, err
}

func isMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

// countLines counts TODO-bearing lines in plain text, partitioned by bug
// reference.
func countLines(text string) Counts {
	var counts Counts
	for _, line := range strings.Split(text, "\n") {
		if !todoRe.MatchString(line) {
			continue
		}
		if bugRe.MatchString(line) {
			counts.WithBug++
		} else {
			counts.WithoutBug++
		}
	}
	return counts
}
