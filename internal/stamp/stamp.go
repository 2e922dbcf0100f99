// Package stamp writes the build-identity file recording which source
// revision a build was produced from.
package stamp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/harrison/releasegate/internal/filelock"
	"github.com/harrison/releasegate/internal/gitutil"
)

// Record is the persisted build stamp. The values are exactly as git
// reported them, embedded into JSON without reformatting.
type Record struct {
	BuildHash string `json:"buildHash"`
	BuildDate string `json:"buildDate"`
}

// Stamper queries git and writes the stamp file.
type Stamper struct {
	git *gitutil.Git
}

// New creates a Stamper over the given git helper.
func New(git *gitutil.Git) *Stamper {
	return &Stamper{git: git}
}

// Stamp queries the short revision hash and commit date of HEAD and writes
// them to relPath under the repository root, overwriting any previous stamp.
// The write is atomic; if any git query fails, no file is touched.
// It returns the written record and the absolute output path.
func (s *Stamper) Stamp(ctx context.Context, relPath string) (Record, string, error) {
	sha, err := s.git.ShortSHA(ctx)
	if err != nil {
		return Record{}, "", err
	}

	date, err := s.git.CommitDate(ctx)
	if err != nil {
		return Record{}, "", err
	}

	root, err := s.git.RepoRoot(ctx)
	if err != nil {
		return Record{}, "", err
	}

	rec := Record{BuildHash: sha, BuildDate: date}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Record{}, "", fmt.Errorf("encode build stamp: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(root, relPath)
	if err := filelock.AtomicWrite(path, data); err != nil {
		return Record{}, "", fmt.Errorf("write build stamp: %w", err)
	}

	return rec, path, nil
}
