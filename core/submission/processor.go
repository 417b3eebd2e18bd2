// Package submission files the entries of a Moodle submissions archive into per-student
// directories and flags the files uploaded after the due date.
package submission

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/hwunzipper/core"
	"github.com/trezcool/hwunzipper/core/homework"
	"github.com/trezcool/hwunzipper/core/roster"
)

const (
	FlagsFileName = "flags.txt"

	secondsPerDay = 24 * 60 * 60
	hintMinRatio  = 0.8
)

var ErrNotZip = errors.New("is not a valid .zip file")

type (
	Options struct {
		OutDir           string
		SubmissionMarker string
		DueDate          time.Time
	}

	Processor struct {
		students roster.Roster
		names    []string
		opts     Options
		logger   core.Logger
	}
)

// Open opens the archive at `path`, failing with ErrNotZip when it is not a zip file.
func Open(path string) (*zip.ReadCloser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrap(ErrNotZip, err.Error())
	}
	return zr, nil
}

func NewProcessor(students roster.Roster, opts Options, logger core.Logger) (*Processor, error) {
	if err := vala.BeginValidation().Validate(
		vala.IsNotNil(students, "students"),
		vala.StringNotEmpty(opts.OutDir, "OutDir"),
		vala.StringNotEmpty(opts.SubmissionMarker, "SubmissionMarker"),
	).Check(); err != nil {
		return nil, err
	}
	names := students.Names()
	sort.Strings(names)
	return &Processor{students: students, names: names, opts: opts, logger: logger}, nil
}

// Process extracts every entry of `zr` that belongs to a student of the roster.
// Entries of other students are skipped. It stops at the first failing entry; files
// extracted so far stay on disk.
func (p *Processor) Process(zr *zip.Reader) (Report, error) {
	var rep Report
	for _, f := range zr.File {
		key := strings.SplitN(f.Name, "_", 2)[0]
		std, ok := p.students[key]
		if !ok {
			p.hint(key, f.Name)
			rep.Skipped = append(rep.Skipped, f.Name)
			continue
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if err := p.processFile(f, std, &rep); err != nil {
			return rep, errors.Wrapf(err, "processing %s", f.Name)
		}
	}
	return rep, nil
}

func (p *Processor) processFile(f *zip.File, std roster.Student, rep *Report) error {
	name := SubmissionName(f.Name, p.opts.SubmissionMarker)
	rel, ok := safeRelPath(name)
	if !ok {
		p.logger.Warn(fmt.Sprintf("skipping %q: file name escapes the student directory", f.Name))
		rep.Skipped = append(rep.Skipped, f.Name)
		return nil
	}

	// create the sub-dir
	stdDir := filepath.Join(p.opts.OutDir, std.DirName())
	dst := filepath.Join(stdDir, rel)
	if err := homework.EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}

	// extract the file
	if err := extract(f, dst); err != nil {
		return err
	}
	rep.Extracted = append(rep.Extracted, Extracted{Student: std, File: name, Path: dst})

	// check end time
	modTime := wallClock(f.Modified, p.opts.DueDate.Location())
	if !modTime.After(p.opts.DueDate) {
		return nil
	}
	late := Late{Student: std, File: name, ModTime: modTime, Minutes: MinutesLate(p.opts.DueDate, modTime)}
	if err := appendFlag(filepath.Join(stdDir, FlagsFileName), late); err != nil {
		return err
	}
	rep.Late = append(rep.Late, late)
	p.logger.Info(fmt.Sprintf("%s: %s is late with %d minutes", std.Key(), name, late.Minutes))
	return nil
}

// hint logs the roster name closest to an unknown key, which usually is a typo in the roster.
func (p *Processor) hint(key, entry string) {
	var (
		best  string
		ratio float64
	)
	for _, name := range p.names {
		r := difflib.NewMatcher(strings.Split(key, ""), strings.Split(name, "")).Ratio()
		if r > ratio {
			best, ratio = name, r
		}
	}
	if ratio >= hintMinRatio {
		p.logger.Debug(fmt.Sprintf("skipping %q: %q is not in the roster (closest: %q)", entry, key, best))
	}
}

// SubmissionName returns the path of the submitted file within an entry name: whatever follows
// the last submission marker, without a leading path separator.
func SubmissionName(entry, marker string) string {
	name := entry
	if i := strings.LastIndex(entry, marker); i >= 0 {
		name = entry[i+len(marker):]
	}
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		name = name[1:]
	}
	return name
}

// MinutesLate returns how late `mod` is compared to `due`.
// Only the seconds component of the delay counts: whole days are dropped.
func MinutesLate(due, mod time.Time) int {
	secs := int64(mod.Sub(due)/time.Second) % secondsPerDay
	if secs < 0 {
		secs += secondsPerDay
	}
	return int(secs / 60)
}

func safeRelPath(name string) (string, bool) {
	rel := filepath.Clean(filepath.FromSlash(strings.ReplaceAll(name, `\`, "/")))
	if rel == "." || rel == ".." || filepath.IsAbs(rel) || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// wallClock reads the clock time of `t` as if it was taken in `loc`.
// Zip entries carry a local MS-DOS time without a time zone.
func wallClock(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

func extract(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return errors.Wrap(err, "opening entry")
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "creating file")
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return errors.Wrapf(err, "writing %s", dst)
	}
	return errors.Wrapf(out.Close(), "closing %s", dst)
}

func appendFlag(path string, late Late) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "opening flags file")
	}
	if _, err := f.WriteString(late.Flag()); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}
