// Package homework derives what a Moodle archive is about from its file name and lays out
// the directories its submissions are extracted into.
package homework

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind tells easy and hard assignments apart; they live in different spreadsheet columns.
type Kind int

const (
	Hard Kind = iota
	Easy
)

var (
	ErrArchiveName = errors.New("does not look like moodle's zip file")

	archiveNameRegex = regexp.MustCompile(`C*(\d+)-(\d+)\.zip`)
)

func (k Kind) String() string {
	if k == Easy {
		return "easy"
	}
	return "hard"
}

// Offset returns the grid column offset of the kind.
func (k Kind) Offset(easy, hard int) int {
	if k == Easy {
		return easy
	}
	return hard
}

// Archive is what the name of a Moodle download tells about its content.
type Archive struct {
	Path     string
	CourseID string
	Number   int
	Kind     Kind
}

// ParseArchiveName reads the homework number and kind from the archive's base name,
// e.g. "C101-2.zip" is hard homework 2 and "леко C101-3.zip" easy homework 3 (easyMarker "леко").
func ParseArchiveName(path, easyMarker string) (Archive, error) {
	name := filepath.Base(path)
	m := archiveNameRegex.FindStringSubmatch(name)
	if m == nil {
		return Archive{}, errors.Wrap(ErrArchiveName, name)
	}
	num, err := strconv.Atoi(m[2])
	if err != nil {
		return Archive{}, errors.Wrap(ErrArchiveName, name)
	}

	kind := Hard
	if easyMarker != "" && strings.Contains(strings.ToLower(name), strings.ToLower(easyMarker)) {
		kind = Easy
	}
	return Archive{Path: path, CourseID: m[1], Number: num, Kind: kind}, nil
}

// OutputDirName returns the directory the archive's submissions go into, under `root`.
func OutputDirName(root string, num int, kind Kind) string {
	return filepath.Join(root, fmt.Sprintf("%02d_hw_%s_check", num, kind))
}

// OutputDir is OutputDirName for a parsed archive.
func (a Archive) OutputDir(root string) string {
	return OutputDirName(root, a.Number, a.Kind)
}

// EnsureDir creates the directory `path` (and its parents) if it does not exist yet.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Wrapf(err, "creating directory %s", path)
	}
	return nil
}
