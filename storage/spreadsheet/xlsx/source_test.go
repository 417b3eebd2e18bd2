package xlsxsheet

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/hwunzipper/core/roster"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	red, err := f.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Color: []string{"FF0000"}, Pattern: 1}})
	require.NoError(t, err)

	require.NoError(t, f.SetCellValue(sheet, "A1", "81234"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "Мария Иванова Петрова"))
	require.NoError(t, f.SetCellStyle(sheet, "C1", "C1", red))
	require.NoError(t, f.SetCellValue(sheet, "A2", "81235"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "Георги Стоянов"))
	require.NoError(t, f.SetCellValue(sheet, "B4", "Иван Филипов"))
	require.NoError(t, f.SetCellStyle(sheet, "B4", "B4", red))
	require.NoError(t, f.SetCellValue(sheet, "D6", "20 10 2019, 23:59"))
	require.NoError(t, f.SetCellValue(sheet, "E6", "3 11 2019, 9:30"))

	path := filepath.Join(t.TempDir(), "roster.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestSource(t *testing.T) {
	src, err := Open(writeWorkbook(t))
	require.NoError(t, err)
	defer src.Close()
	ctx := context.Background()

	grid, err := src.Cells(ctx, "Sheet1!A1:C2")
	require.NoError(t, err)
	require.Len(t, grid, 2)
	require.Len(t, grid[0], 3)
	assert.Equal(t, "81234", grid[0][0].Value)
	assert.Equal(t, "Мария Иванова Петрова", grid[0][1].Value)
	assert.Nil(t, grid[0][1].EffectiveColor)
	require.NotNil(t, grid[0][2].EffectiveColor)
	assert.Equal(t, &roster.Color{Red: 1, Alpha: 1}, grid[0][2].EffectiveColor)
	assert.Nil(t, grid[1][2].EffectiveColor)

	names, err := src.Cells(ctx, "Sheet1!B4")
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, "Иван Филипов", names[0][0].Value)
	assert.True(t, names[0][0].EnteredColor.Equal(grid[0][2].EffectiveColor))

	dates, err := src.Values(ctx, "Sheet1!D6:E6")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"20 10 2019, 23:59", "3 11 2019, 9:30"}}, dates)
}

func TestSource_unknownSheet(t *testing.T) {
	src, err := Open(writeWorkbook(t))
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Values(context.Background(), "Nope!A1:A2")
	assert.Error(t, err)
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		rng                            string
		sheet                          string
		fromCol, fromRow, toCol, toRow int
		wantErr                        bool
	}{
		{rng: "Sheet1!A4:R195", sheet: "Sheet1", fromCol: 1, fromRow: 4, toCol: 18, toRow: 195},
		{rng: "'My Sheet'!B205:B217", sheet: "My Sheet", fromCol: 2, fromRow: 205, toCol: 2, toRow: 217},
		{rng: "Sheet1!D198", sheet: "Sheet1", fromCol: 4, fromRow: 198, toCol: 4, toRow: 198},
		{rng: "Sheet1!R195:A4", sheet: "Sheet1", fromCol: 1, fromRow: 4, toCol: 18, toRow: 195},
		{rng: "A4:R195", wantErr: true},
		{rng: "Sheet1!lol", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.rng, func(t *testing.T) {
			sheet, fc, fr, tc, tr, err := parseRange(tt.rng)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidRange), "parseRange() error = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.sheet, sheet)
			assert.Equal(t, []int{tt.fromCol, tt.fromRow, tt.toCol, tt.toRow}, []int{fc, fr, tc, tr})
		})
	}
}

func TestParseHexColor(t *testing.T) {
	assert.Equal(t, &roster.Color{Red: 1, Alpha: 1}, parseHexColor("#FF0000"))
	assert.Equal(t, &roster.Color{Blue: 1, Alpha: 1}, parseHexColor("FF0000FF"))
	assert.Nil(t, parseHexColor(""))
	assert.Nil(t, parseHexColor("red"))
}
