// Package xlsxsheet reads the roster from a local .xlsx workbook, e.g. a download of the
// roster spreadsheet, so a run needs no Google account.
package xlsxsheet

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/hwunzipper/core/roster"
)

var ErrInvalidRange = errors.New("invalid A1 range")

type Source struct {
	file *excelize.File
}

var _ roster.Source = (*Source)(nil)

func Open(path string) (*Source, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening workbook %s", path)
	}
	return &Source{file: f}, nil
}

func (s *Source) Close() error {
	return s.file.Close()
}

func (s *Source) Cells(ctx context.Context, rng string) ([][]roster.Cell, error) {
	return readRange(ctx, rng, func(sheet, cell string) (roster.Cell, error) {
		val, err := s.file.GetCellValue(sheet, cell)
		if err != nil {
			return roster.Cell{}, err
		}
		clr, err := s.fillColor(sheet, cell)
		if err != nil {
			return roster.Cell{}, err
		}
		return roster.Cell{Value: val, EnteredColor: clr, EffectiveColor: clr}, nil
	})
}

func (s *Source) Values(ctx context.Context, rng string) ([][]string, error) {
	return readRange(ctx, rng, func(sheet, cell string) (string, error) {
		return s.file.GetCellValue(sheet, cell)
	})
}

// fillColor returns the pattern fill of the cell, nil when it has none.
func (s *Source) fillColor(sheet, cell string) (*roster.Color, error) {
	idx, err := s.file.GetCellStyle(sheet, cell)
	if err != nil {
		return nil, err
	}
	if idx == 0 {
		return nil, nil
	}
	style, err := s.file.GetStyle(idx)
	if err != nil {
		return nil, err
	}
	if style == nil || style.Fill.Type != "pattern" || style.Fill.Pattern == 0 || len(style.Fill.Color) == 0 {
		return nil, nil
	}
	return parseHexColor(style.Fill.Color[0]), nil
}

func readRange[T any](ctx context.Context, rng string, read func(sheet, cell string) (T, error)) ([][]T, error) {
	sheet, fromCol, fromRow, toCol, toRow, err := parseRange(rng)
	if err != nil {
		return nil, err
	}

	rows := make([][]T, 0, toRow-fromRow+1)
	for r := fromRow; r <= toRow; r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make([]T, 0, toCol-fromCol+1)
		for c := fromCol; c <= toCol; c++ {
			cell, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return nil, errors.Wrap(err, rng)
			}
			v, err := read(sheet, cell)
			if err != nil {
				return nil, errors.Wrapf(err, "reading %s!%s", sheet, cell)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseRange splits "Sheet1!B205:B217" into its sheet and corner coordinates.
func parseRange(rng string) (sheet string, fromCol, fromRow, toCol, toRow int, err error) {
	i := strings.LastIndex(rng, "!")
	if i <= 0 {
		return "", 0, 0, 0, 0, errors.Wrap(ErrInvalidRange, rng)
	}
	sheet = strings.Trim(rng[:i], "'")
	corners := strings.SplitN(rng[i+1:], ":", 2)
	if len(corners) == 1 {
		corners = append(corners, corners[0])
	}
	if fromCol, fromRow, err = excelize.CellNameToCoordinates(corners[0]); err != nil {
		return "", 0, 0, 0, 0, errors.Wrap(ErrInvalidRange, rng)
	}
	if toCol, toRow, err = excelize.CellNameToCoordinates(corners[1]); err != nil {
		return "", 0, 0, 0, 0, errors.Wrap(ErrInvalidRange, rng)
	}
	if toCol < fromCol {
		fromCol, toCol = toCol, fromCol
	}
	if toRow < fromRow {
		fromRow, toRow = toRow, fromRow
	}
	return sheet, fromCol, fromRow, toCol, toRow, nil
}

// parseHexColor converts "RRGGBB" or "AARRGGBB" (optionally prefixed by '#') into a Color.
func parseHexColor(hex string) *roster.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	alpha := uint64(0xFF)
	if len(hex) == 8 {
		a, err := strconv.ParseUint(hex[:2], 16, 8)
		if err != nil {
			return nil
		}
		alpha, hex = a, hex[2:]
	}
	if len(hex) != 6 {
		return nil
	}
	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil
	}
	return &roster.Color{
		Red:   float64(rgb>>16&0xFF) / 255,
		Green: float64(rgb>>8&0xFF) / 255,
		Blue:  float64(rgb&0xFF) / 255,
		Alpha: float64(alpha) / 255,
	}
}
