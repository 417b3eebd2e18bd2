// Package gsheets reads the roster from a Google spreadsheet through the Sheets v4 API.
package gsheets

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/trezcool/hwunzipper/core/roster"
)

// Scope grants read only access to google spreadsheets.
const Scope = sheets.SpreadsheetsReadonlyScope

type Source struct {
	svc           *sheets.Service
	spreadsheetID string
}

var _ roster.Source = (*Source)(nil)

func New(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Source, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating sheets service")
	}
	return &Source{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (s *Source) Cells(ctx context.Context, rng string) ([][]roster.Cell, error) {
	resp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Ranges(rng).
		IncludeGridData(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", rng)
	}
	if len(resp.Sheets) == 0 || len(resp.Sheets[0].Data) == 0 {
		return nil, nil
	}

	rowData := resp.Sheets[0].Data[0].RowData
	rows := make([][]roster.Cell, 0, len(rowData))
	for _, rd := range rowData {
		if rd == nil {
			rows = append(rows, nil)
			continue
		}
		row := make([]roster.Cell, 0, len(rd.Values))
		for _, cd := range rd.Values {
			row = append(row, newCell(cd))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Source) Values(ctx context.Context, rng string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "get values %s", rng)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, vals := range resp.Values {
		row := make([]string, 0, len(vals))
		for _, v := range vals {
			row = append(row, fmt.Sprint(v))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func newCell(cd *sheets.CellData) roster.Cell {
	if cd == nil {
		return roster.Cell{}
	}
	cell := roster.Cell{Value: cd.FormattedValue}
	if cd.UserEnteredValue != nil && cd.UserEnteredValue.StringValue != nil {
		cell.Value = *cd.UserEnteredValue.StringValue
	}
	if cd.UserEnteredFormat != nil {
		cell.EnteredColor = newColor(cd.UserEnteredFormat.BackgroundColor)
	}
	if cd.EffectiveFormat != nil {
		cell.EffectiveColor = newColor(cd.EffectiveFormat.BackgroundColor)
	}
	return cell
}

func newColor(c *sheets.Color) *roster.Color {
	if c == nil {
		return nil
	}
	return &roster.Color{Red: c.Red, Green: c.Green, Blue: c.Blue, Alpha: c.Alpha}
}
