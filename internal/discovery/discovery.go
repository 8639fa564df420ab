// Package discovery builds the ordered list of test modules from the scripts
// directory.
package discovery

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"golang.org/x/text/cases"

	"github.com/AndreyAkinshin/skyunit/internal/errors"
)

// Default module naming.
const (
	DefaultSuffix    = "UnitTest"
	DefaultDirectory = "Data/Scripts"
)

// Entry is one item of a storage listing.
type Entry struct {
	Name string // File name including extension
	Stem string // File name without its final extension
}

// Repository lists candidate test modules from persistent storage.
type Repository interface {
	ListEntries(location string) ([]Entry, error)
}

// FSRepository lists entries of a billy filesystem.
type FSRepository struct {
	fs billy.Filesystem
}

// NewFSRepository creates a repository backed by fs.
func NewFSRepository(fs billy.Filesystem) *FSRepository {
	return &FSRepository{fs: fs}
}

// NewOSRepository creates a repository rooted at the given directory of the
// host filesystem.
func NewOSRepository(root string) *FSRepository {
	return NewFSRepository(osfs.New(root))
}

// ListEntries returns the regular files in location, in the order the
// filesystem reports them.
func (r *FSRepository) ListEntries(location string) ([]Entry, error) {
	info, err := r.fs.Stat(location)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", location)
	}
	infos, err := r.fs.ReadDir(location)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		entries = append(entries, newEntry(info))
	}
	return entries, nil
}

func newEntry(info os.FileInfo) Entry {
	name := info.Name()
	return Entry{Name: name, Stem: strings.TrimSuffix(name, path.Ext(name))}
}

// Matcher reports whether a file name names a test module.
// Comparison is case-insensitive.
type Matcher struct {
	pattern string
}

// NewMatcher creates a matcher for names ending with suffix+extension.
func NewMatcher(suffix, extension string) *Matcher {
	return &Matcher{pattern: cases.Fold().String(suffix + extension)}
}

// Match reports whether name ends with the module pattern.
func (m *Matcher) Match(name string) bool {
	return strings.HasSuffix(cases.Fold().String(name), m.pattern)
}

// Discover lists location and returns the stems of all matching entries, in
// listing order. Duplicates are kept. Finding nothing is not an error; an
// unreadable location is reported as a discovery error.
func Discover(repo Repository, location, suffix, extension string) ([]string, error) {
	entries, err := repo.ListEntries(location)
	if err != nil {
		return nil, errors.Discovery(location, err)
	}

	matcher := NewMatcher(suffix, extension)
	modules := []string{}
	for _, entry := range entries {
		if matcher.Match(entry.Name) {
			modules = append(modules, entry.Stem)
		}
	}
	return modules, nil
}

// Pattern returns the human-readable glob describing what Discover looks for.
func Pattern(location, suffix, extension string) string {
	return path.Join(location, "*"+suffix+extension)
}

// Report returns the one-line discovery report for the transcript.
func Report(found int, pattern string) string {
	if found == 0 {
		return fmt.Sprintf("No unit tests found (%s)", pattern)
	}
	return fmt.Sprintf("Found %d unit tests (%s)", found, pattern)
}
