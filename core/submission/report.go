package submission

import (
	"fmt"
	"sort"
	"time"

	"github.com/trezcool/hwunzipper/core/roster"
)

type (
	Extracted struct {
		Student roster.Student
		File    string
		Path    string
	}

	Late struct {
		Student roster.Student
		File    string
		ModTime time.Time
		Minutes int
	}

	// Report is the outcome of processing one archive.
	Report struct {
		Extracted []Extracted
		Skipped   []string
		Late      []Late
	}
)

// Flag is the line appended to the student's flags file.
func (l Late) Flag() string {
	return l.File + " was submitted after the due datetime. " +
		fmt.Sprintf("Late with %d minutes\n", l.Minutes)
}

// Students returns the number of distinct students files were extracted for.
func (r Report) Students() int {
	seen := make(map[string]struct{}, len(r.Extracted))
	for _, e := range r.Extracted {
		seen[e.Student.ID] = struct{}{}
	}
	return len(seen)
}

// LateByStudent groups the late files by student directory name, sorted.
func (r Report) LateByStudent() []StudentLate {
	idx := make(map[string]int)
	var res []StudentLate
	for _, l := range r.Late {
		dir := l.Student.DirName()
		i, ok := idx[dir]
		if !ok {
			i = len(res)
			idx[dir] = i
			res = append(res, StudentLate{Student: l.Student})
		}
		res[i].Files = append(res[i].Files, l)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Student.DirName() < res[j].Student.DirName() })
	return res
}

func (r Report) String() string {
	return fmt.Sprintf("%d files extracted for %d students, %d late, %d entries skipped",
		len(r.Extracted), r.Students(), len(r.Late), len(r.Skipped))
}

type StudentLate struct {
	Student roster.Student
	Files   []Late
}
