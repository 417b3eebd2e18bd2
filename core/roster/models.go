package roster

import (
	"strings"

	"github.com/pkg/errors"
)

// Color is a cell background, components in [0, 1].
type Color struct {
	Red   float64
	Green float64
	Blue  float64
	Alpha float64
}

func (c *Color) Equal(o *Color) bool {
	if c == nil || o == nil {
		return c == o
	}
	return *c == *o
}

// Cell is a spreadsheet cell as read from a Source.
// A nil color means the cell carries no background formatting.
type Cell struct {
	Value          string
	EnteredColor   *Color // background set by the user
	EffectiveColor *Color // background after conditional formatting
}

// Row is a row of the submission grid assigned to a grader.
type Row struct {
	ID       string
	FullName string
	Mark     *Color
}

// Student is a roster entry.
type Student struct {
	ID    string
	First string
	Last  string
}

// Key is the normalized name the student is looked up with: first and last name.
func (s Student) Key() string {
	return s.First + " " + s.Last
}

// DirName is the name of the student's submission directory.
func (s Student) DirName() string {
	return s.ID + "_" + s.First + "_" + s.Last
}

// Roster maps normalized student names to students.
type Roster map[string]Student

// Names returns the roster keys.
func (r Roster) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return names
}

// NewStudent builds a Student from a grid row, dropping middle names.
func NewStudent(row Row) (Student, error) {
	id := strings.TrimSpace(row.ID)
	names := strings.Fields(row.FullName)
	if id == "" {
		return Student{}, errors.Wrapf(ErrMalformedRow, "no id for %q", row.FullName)
	}
	if len(names) < 2 {
		return Student{}, errors.Wrapf(ErrMalformedRow, "%s: name %q needs first and last name", id, row.FullName)
	}
	return Student{ID: id, First: names[0], Last: names[len(names)-1]}, nil
}

// NormalizeName drops the middle names of `fullName`.
func NormalizeName(fullName string) string {
	names := strings.Fields(fullName)
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return names[0] + " " + names[len(names)-1]
	}
}
