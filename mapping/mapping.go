// Package mapping writes and reads the legacy id to new id file produced by a
// successful import. The file is the only thing downstream services consume.
package mapping

import (
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/padraicbc/marathon-import/remap"
)

// FileName is created next to the export file.
const FileName = "marathon_id_mapping.json"

// File is the on-disk layout: one ordered list of pairs per mapped kind.
type File struct {
	Marathon    []remap.Pair `json:"marathon"`
	Step        []remap.Pair `json:"step"`
	Participant []remap.Pair `json:"participant"`
	Winner      []remap.Pair `json:"winner"`
}

// FromRemapper copies the current assignments of every mapped kind.
func FromRemapper(r *remap.Remapper) *File {
	return &File{
		Marathon:    r.Pairs(remap.Marathon),
		Step:        r.Pairs(remap.Step),
		Participant: r.Pairs(remap.Participant),
		Winner:      r.Pairs(remap.Winner),
	}
}

func (f *File) list(kind remap.Kind) []remap.Pair {
	switch kind {
	case remap.Marathon:
		return f.Marathon
	case remap.Step:
		return f.Step
	case remap.Participant:
		return f.Participant
	case remap.Winner:
		return f.Winner
	}
	return nil
}

// Pairs yields the pairs of kind in file order. Unmapped kinds yield nothing.
func (f *File) Pairs(kind remap.Kind) iter.Seq[remap.Pair] {
	return func(yield func(remap.Pair) bool) {
		for _, p := range f.list(kind) {
			if !yield(p) {
				return
			}
		}
	}
}

// Len returns the number of pairs for kind.
func (f *File) Len(kind remap.Kind) int {
	return len(f.list(kind))
}

// Read loads a mapping file.
func Read(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping: %w", err)
	}
	defer fh.Close()

	var f File
	if err := json.NewDecoder(fh).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode mapping %s: %w", path, err)
	}
	return &f, nil
}

// Pending is a fully written mapping file that is not visible under its final
// name yet.
type Pending struct {
	tmp  string
	dest string
}

// Prepare writes the assignments held by r to a temporary file in dir.
// Nothing named FileName exists until Commit.
func Prepare(dir string, r *remap.Remapper) (*Pending, error) {
	tmp, err := os.CreateTemp(dir, ".marathon_id_mapping-*.json")
	if err != nil {
		return nil, fmt.Errorf("create mapping: %w", err)
	}
	p := &Pending{tmp: tmp.Name(), dest: filepath.Join(dir, FileName)}

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromRemapper(r)); err != nil {
		_ = tmp.Close()
		p.Discard()
		return nil, fmt.Errorf("encode mapping: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		p.Discard()
		return nil, fmt.Errorf("sync mapping: %w", err)
	}
	if err := tmp.Close(); err != nil {
		p.Discard()
		return nil, fmt.Errorf("close mapping: %w", err)
	}
	if err := os.Chmod(p.tmp, 0o644); err != nil {
		p.Discard()
		return nil, fmt.Errorf("chmod mapping: %w", err)
	}
	return p, nil
}

// Commit moves the file to its final name and returns that path.
func (p *Pending) Commit() (string, error) {
	if err := os.Rename(p.tmp, p.dest); err != nil {
		p.Discard()
		return "", fmt.Errorf("rename mapping: %w", err)
	}
	return p.dest, nil
}

// Discard removes the temporary file.
func (p *Pending) Discard() {
	_ = os.Remove(p.tmp)
}

// Write prepares and commits in one step.
func Write(dir string, r *remap.Remapper) (string, error) {
	p, err := Prepare(dir, r)
	if err != nil {
		return "", err
	}
	return p.Commit()
}
