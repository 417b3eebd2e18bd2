// Package roster resolves which students a grader checks for a homework and when it was due.
//
// Graders are told apart by the background color of their name in the roster spreadsheet; a
// student's homework cell painted with that color means the grader checks that submission.
package roster

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/hwunzipper/core"
)

var (
	// errors
	ErrGraderNotFound = errors.New("grader not found")
	ErrMalformedRow   = errors.New("malformed roster row")
	ErrNoDueDate      = errors.New("no due date")
)

type (
	// Source is a spreadsheet the roster is read from. Ranges use A1 notation, e.g. "Sheet1!A4:R195".
	Source interface {
		// Cells returns the cells of `rng` row by row. Trailing empty cells of a row may be missing.
		Cells(ctx context.Context, rng string) ([][]Cell, error)
		// Values returns the formatted values of `rng` row by row.
		Values(ctx context.Context, rng string) ([][]string, error)
	}

	Options struct {
		NamesRange    string
		DatesRange    string
		GridRange     string
		GraderName    string
		DueDateLayout string
		Location      *time.Location
	}

	Resolver struct {
		src    Source
		opts   Options
		logger core.Logger
	}
)

func NewResolver(src Source, opts Options, logger core.Logger) *Resolver {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Resolver{src: src, opts: opts, logger: logger}
}

// NewOptions extracts the resolver options from the configuration.
func NewOptions(conf *core.Config) Options {
	return Options{
		NamesRange:    conf.Sheet.NamesRange,
		DatesRange:    conf.Sheet.DatesRange,
		GridRange:     conf.Sheet.GridRange,
		GraderName:    conf.Grader.Name,
		DueDateLayout: conf.Homework.DueDateLayout,
		Location:      conf.Homework.Location,
	}
}

// Resolve returns the grader's students for homework `hwNum` and its due date.
// `offset` selects the easy or hard columns of the grid.
func (r *Resolver) Resolve(ctx context.Context, hwNum, offset int) (Roster, time.Time, error) {
	if err := vala.BeginValidation().Validate(
		vala.GreaterThan(hwNum, 0, "hwNum"),
		vala.GreaterThan(offset, -1, "offset"),
		vala.StringNotEmpty(r.opts.GraderName, "GraderName"),
	).Check(); err != nil {
		return nil, time.Time{}, err
	}

	mark, err := r.GraderColor(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	students, err := r.Students(ctx, mark, hwNum, offset)
	if err != nil {
		return nil, time.Time{}, err
	}
	due, err := r.DueDate(ctx, hwNum)
	if err != nil {
		return nil, time.Time{}, err
	}
	return students, due, nil
}

// GraderColor returns the background color of the grader's name in the names range.
func (r *Resolver) GraderColor(ctx context.Context) (*Color, error) {
	rows, err := r.src.Cells(ctx, r.opts.NamesRange)
	if err != nil {
		return nil, errors.Wrap(err, "reading graders")
	}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if core.CleanString(row[0].Value) != r.opts.GraderName {
			continue
		}
		if row[0].EnteredColor == nil {
			return nil, errors.Wrapf(ErrGraderNotFound, "%s has no marker color", r.opts.GraderName)
		}
		return row[0].EnteredColor, nil
	}
	return nil, errors.Wrap(ErrGraderNotFound, r.opts.GraderName)
}

// Students returns the students whose homework cell at column `offset + hwNum` is painted with `mark`.
// Rows without such a cell, or with an unformatted one, have no submission for the grader.
func (r *Resolver) Students(ctx context.Context, mark *Color, hwNum, offset int) (Roster, error) {
	rows, err := r.src.Cells(ctx, r.opts.GridRange)
	if err != nil {
		return nil, errors.Wrap(err, "reading submission grid")
	}

	col := offset + hwNum
	students := make(Roster)
	for i, cells := range rows {
		if col >= len(cells) || cells[col].EffectiveColor == nil {
			continue // empty cell, just skip it
		}
		if !cells[col].EffectiveColor.Equal(mark) {
			continue
		}
		if len(cells) < 2 {
			return nil, errors.Wrapf(ErrMalformedRow, "grid row %d", i+1)
		}
		std, err := NewStudent(Row{ID: cells[0].Value, FullName: cells[1].Value, Mark: cells[col].EffectiveColor})
		if err != nil {
			return nil, errors.Wrapf(err, "grid row %d", i+1)
		}
		students[std.Key()] = std
	}
	r.logger.Debug(fmt.Sprintf("%d students marked for homework %d (column %d)", len(students), hwNum, col))
	return students, nil
}

// DueDate returns the due date of homework `hwNum` from the dates range.
func (r *Resolver) DueDate(ctx context.Context, hwNum int) (time.Time, error) {
	rows, err := r.src.Values(ctx, r.opts.DatesRange)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "reading due dates")
	}
	if len(rows) == 0 || hwNum < 1 || hwNum > len(rows[0]) || strings.TrimSpace(rows[0][hwNum-1]) == "" {
		return time.Time{}, errors.Wrapf(ErrNoDueDate, "homework %d", hwNum)
	}
	due, err := time.ParseInLocation(r.opts.DueDateLayout, strings.TrimSpace(rows[0][hwNum-1]), r.opts.Location)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing due date of homework %d", hwNum)
	}
	return due, nil
}
