// Package history reads the YAML document describing the CVS history to
// reconcile: every file's tags and the commits grouped from the CVS log.
package history

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"cvsgit.dev/cvsgit/internal/cvs"
)

type fileDoc struct {
	Name string            `yaml:"name"`
	Tags map[string]string `yaml:"tags,omitempty"`
}

type revisionDoc struct {
	File       string `yaml:"file"`
	Revision   string `yaml:"revision"`
	Mergepoint string `yaml:"mergepoint,omitempty"`
	Dead       bool   `yaml:"dead,omitempty"`
}

type commitDoc struct {
	ID        string        `yaml:"id"`
	Author    string        `yaml:"author,omitempty"`
	Time      time.Time     `yaml:"time,omitempty"`
	Message   string        `yaml:"message,omitempty"`
	Revisions []revisionDoc `yaml:"revisions"`
}

type document struct {
	Files        []fileDoc         `yaml:"files,omitempty"`
	Commits      []commitDoc       `yaml:"commits"`
	Branchpoints map[string]string `yaml:"branchpoints,omitempty"`
}

// History is a loaded history document
type History struct {
	Files   map[string]*cvs.FileInfo
	Commits []*cvs.Commit

	// Branchpoints maps a branch name to the id of the commit it was cut from.
	// Branches not listed have their branchpoint derived from the file stems.
	Branchpoints map[string]string
}

// LoadFile reads a history document from a file. A path of "-" reads
// standard input.
func LoadFile(path string) (*History, error) {
	if path == "-" {
		h, err := Load(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return h, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	h, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// Load reads a history document. Tags are applied before commits are built so
// that each commit can find its branch.
func Load(r io.Reader) (*History, error) {
	var doc document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("history document is empty")
		}
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}

	h := &History{
		Files:        make(map[string]*cvs.FileInfo),
		Branchpoints: doc.Branchpoints,
	}
	if h.Branchpoints == nil {
		h.Branchpoints = make(map[string]string)
	}

	for i, fd := range doc.Files {
		if fd.Name == "" {
			return nil, fmt.Errorf("file %d has no name", i+1)
		}
		if _, dup := h.Files[fd.Name]; dup {
			return nil, fmt.Errorf("file %s is listed twice", fd.Name)
		}
		file := cvs.NewFileInfo(fd.Name)

		names := make([]string, 0, len(fd.Tags))
		for name := range fd.Tags {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			revision, err := cvs.ParseRevision(fd.Tags[name])
			if err != nil {
				return nil, fmt.Errorf("file %s: tag %s: %w", fd.Name, name, err)
			}
			if revision.IsEmpty() {
				return nil, fmt.Errorf("file %s: tag %s has no revision", fd.Name, name)
			}
			file.AddTag(name, revision)
		}
		h.Files[fd.Name] = file
	}

	ids := make(map[string]bool, len(doc.Commits))
	for i, cd := range doc.Commits {
		if cd.ID == "" {
			return nil, fmt.Errorf("commit %d has no id", i+1)
		}
		if ids[cd.ID] {
			return nil, fmt.Errorf("commit %s is listed twice", cd.ID)
		}
		ids[cd.ID] = true

		commit, err := h.buildCommit(cd)
		if err != nil {
			return nil, fmt.Errorf("commit %s: %w", cd.ID, err)
		}
		h.Commits = append(h.Commits, commit)
	}

	for branch, id := range h.Branchpoints {
		if !ids[id] {
			return nil, fmt.Errorf("branchpoint of %s: unknown commit %s", branch, id)
		}
	}

	return h, nil
}

func (h *History) buildCommit(cd commitDoc) (*cvs.Commit, error) {
	if len(cd.Revisions) == 0 {
		return nil, errors.New("no revisions")
	}

	commit := cvs.NewCommit(cd.ID)
	for i, rd := range cd.Revisions {
		if rd.File == "" {
			return nil, fmt.Errorf("revision %d has no file", i+1)
		}
		revision, err := cvs.ParseRevision(rd.Revision)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rd.File, err)
		}
		if revision.IsEmpty() {
			return nil, fmt.Errorf("%s: missing revision", rd.File)
		}
		mergepoint, err := cvs.ParseRevision(rd.Mergepoint)
		if err != nil {
			return nil, fmt.Errorf("%s: mergepoint: %w", rd.File, err)
		}
		if _, ok := commit.Revision(h.file(rd.File)); ok {
			return nil, fmt.Errorf("%s appears twice", rd.File)
		}

		f := cvs.NewFileRevision(h.file(rd.File), revision, mergepoint, cd.Time, cd.Author, cd.ID)
		f.Message = cd.Message
		f.IsDead = rd.Dead
		commit.Add(f)
	}
	return commit, nil
}

// file returns the named file, creating untagged files on first reference
func (h *History) file(name string) *cvs.FileInfo {
	file, ok := h.Files[name]
	if !ok {
		file = cvs.NewFileInfo(name)
		h.Files[name] = file
	}
	return file
}

// Branchpoint returns the commit a branch was cut from, if the document names
// one. A commit spanning branches is split before streams are built; the part
// not on the branch itself is the branchpoint.
func (h *History) Branchpoint(branch string, commits []*cvs.Commit) *cvs.Commit {
	id, ok := h.Branchpoints[branch]
	if !ok {
		return nil
	}
	for _, c := range commits {
		if c.CommitID() == id && c.Branch() != branch {
			return c
		}
	}
	return nil
}
