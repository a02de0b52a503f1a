package wbk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSheet(t *testing.T) (*Workbook, *Sheet) {
	t.Helper()
	wb := NewWorkbook()
	sh, err := wb.AddSheet("Data")
	require.NoError(t, err)
	return wb, sh
}

func TestAddCellRejectsDuplicates(t *testing.T) {
	_, sh := newTestSheet(t)
	require.NoError(t, sh.AddNumberCell(1, 1, 42))

	assert.ErrorIs(t, sh.AddStringCell(1, 1, "other"), ErrDuplicateCell)
	// the text and integer forms address the same cell
	assert.ErrorIs(t, sh.AddNumberCellAt("A1", 7), ErrDuplicateCell)
}

func TestAddCellBounds(t *testing.T) {
	_, sh := newTestSheet(t)
	bad := []Ref{
		{Row: 0, Col: 1},
		{Row: 1, Col: 0},
		{Row: MaxRow + 1, Col: 1},
		{Row: 1, Col: MaxCol + 1},
	}
	for _, r := range bad {
		assert.ErrorIs(t, sh.AddNumberCell(r.Row, r.Col, 1), ErrRange, "ref %+v", r)
		assert.ErrorIs(t, sh.AddFormulaCell(r.Row, r.Col, "A1+1"), ErrRange, "ref %+v", r)
		assert.ErrorIs(t, sh.AddStringCell(r.Row, r.Col, "x"), ErrRange, "ref %+v", r)
	}
	assert.Empty(t, sh.cells)
}

func TestAddCellAtParsing(t *testing.T) {
	_, sh := newTestSheet(t)
	assert.ErrorIs(t, sh.AddNumberCellAt("1A", 1), ErrSyntax)
	assert.ErrorIs(t, sh.AddStringCellAt("", "x"), ErrSyntax)
	assert.ErrorIs(t, sh.AddFormulaCellAt("A0", "1+1"), ErrRange)

	require.NoError(t, sh.AddNumberCellAt("b2", 5))
	assert.ErrorIs(t, sh.AddNumberCell(2, 2, 5), ErrDuplicateCell)
}

func TestContentLimits(t *testing.T) {
	_, sh := newTestSheet(t)

	require.NoError(t, sh.AddFormulaCell(1, 1, strings.Repeat("1", MaxFormulaLen)))
	assert.ErrorIs(t, sh.AddFormulaCell(1, 2, strings.Repeat("1", MaxFormulaLen+1)), ErrFormulaTooLong)

	require.NoError(t, sh.AddStringCell(2, 1, strings.Repeat("s", MaxStringLen)))
	assert.ErrorIs(t, sh.AddStringCell(2, 2, strings.Repeat("s", MaxStringLen+1)), ErrStringTooLong)

	require.NoError(t, sh.AddStringCell(3, 1, strings.Repeat("\n", MaxLineBreaks)))
	assert.ErrorIs(t, sh.AddStringCell(3, 2, strings.Repeat("\n", MaxLineBreaks+1)), ErrTooManyLineBreaks)

	// the rejected adds left their references unoccupied
	require.NoError(t, sh.AddStringCell(2, 2, "ok"))
}

func TestMergeValidation(t *testing.T) {
	_, sh := newTestSheet(t)

	// a single cell is not a region
	assert.ErrorIs(t, sh.AddMergedStringCell(1, 1, 1, 1, "x"), ErrInvalidMerge)
	// start must be the upper left corner
	assert.ErrorIs(t, sh.AddMergedStringCell(2, 2, 1, 1, "x"), ErrInvalidMerge)
	assert.ErrorIs(t, sh.AddMergedStringCell(1, 2, 1, 1, "x"), ErrInvalidMerge)
	// corners must be in bounds
	assert.ErrorIs(t, sh.AddMergedStringCell(0, 1, 2, 2, "x"), ErrRange)
	assert.ErrorIs(t, sh.AddMergedStringCell(1, 1, MaxRow+1, 2, "x"), ErrRange)

	// one-row and one-column strips are valid regions
	require.NoError(t, sh.AddMergedStringCell(1, 1, 1, 3, "strip"))
	require.NoError(t, sh.AddMergedNumberCell(2, 1, 4, 1, 9.5))
	assert.Len(t, sh.merges, 2)
}

func TestMergeFillsRectangle(t *testing.T) {
	_, sh := newTestSheet(t)
	require.NoError(t, sh.AddMergedStringCellAt("B2", "C3", "anchor", Style{Horiz: HCenter}))

	// the value sits at the anchor; the rest of the rectangle holds
	// empty cells sharing the anchor's style
	anchor := sh.cells[Ref{Row: 2, Col: 2}]
	assert.Equal(t, kindString, anchor.kind)
	for _, r := range []Ref{{Row: 2, Col: 3}, {Row: 3, Col: 2}, {Row: 3, Col: 3}} {
		filler, ok := sh.cells[r]
		require.True(t, ok, "missing filler at %s", r)
		assert.Equal(t, kindEmpty, filler.kind, r.String())
		assert.Equal(t, anchor.style, filler.style, r.String())
	}

	// every covered reference is occupied now
	for _, at := range []string{"B2", "C2", "B3", "C3"} {
		assert.ErrorIs(t, sh.AddNumberCellAt(at, 1), ErrDuplicateCell, at)
	}
	// a merge overlapping any filler cell is rejected the same way
	assert.ErrorIs(t, sh.AddMergedStringCellAt("C3", "D4", "overlap"), ErrDuplicateCell)
	// neighbors stay free
	require.NoError(t, sh.AddNumberCellAt("D2", 1))
}

func TestMergeKeepsPartialCellsOnFailure(t *testing.T) {
	_, sh := newTestSheet(t)
	require.NoError(t, sh.AddNumberCellAt("B1", 5)) // blocks the rectangle part way

	assert.ErrorIs(t, sh.AddMergedStringCell(1, 1, 2, 2, "x"), ErrDuplicateCell)

	// the anchor landed before the failure and stays; no region is recorded
	assert.ErrorIs(t, sh.AddNumberCellAt("A1", 1), ErrDuplicateCell)
	assert.Empty(t, sh.merges)
}

func TestMergedFormulaAndNumberVariants(t *testing.T) {
	_, sh := newTestSheet(t)
	require.NoError(t, sh.AddMergedNumberCellAt("A1", "B1", 3.5))
	require.NoError(t, sh.AddMergedFormulaCellAt("A2", "B2", "A1*2"))
	assert.ErrorIs(t,
		sh.AddMergedFormulaCell(3, 1, 3, 2, strings.Repeat("9", MaxFormulaLen+1)),
		ErrFormulaTooLong)
	assert.Len(t, sh.merges, 2)
}

func TestColumnWidths(t *testing.T) {
	_, sh := newTestSheet(t)

	assert.ErrorIs(t, sh.SetColumnWidth(0, 10), ErrRange)
	assert.ErrorIs(t, sh.SetColumnWidth(MaxCol+1, 10), ErrRange)
	assert.ErrorIs(t, sh.SetColumnWidth(1, -0.5), ErrRange)
	assert.ErrorIs(t, sh.SetColumnWidth(1, MaxColumnWidth+0.5), ErrRange)

	require.NoError(t, sh.SetColumnWidth(3, 0))   // zero width is legal
	require.NoError(t, sh.SetColumnWidth(3, 255)) // as is the maximum
	require.NoError(t, sh.SetColumnWidthAt("C", 18.5))
	assert.Equal(t, 18.5, sh.colWidths[3], "last write wins")

	assert.ErrorIs(t, sh.SetColumnWidthAt("", 10), ErrSyntax)
	assert.ErrorIs(t, sh.SetColumnWidthAt("XFE", 10), ErrRange)
}

func TestRowHeights(t *testing.T) {
	_, sh := newTestSheet(t)

	assert.ErrorIs(t, sh.SetRowHeight(0, 20), ErrRange)
	assert.ErrorIs(t, sh.SetRowHeight(1, -1), ErrRange)
	assert.ErrorIs(t, sh.SetRowHeight(1, MaxRowHeight+1), ErrRange)

	require.NoError(t, sh.SetRowHeight(2, 0))
	require.NoError(t, sh.SetRowHeight(2, 34.5))
	assert.Equal(t, 34.5, sh.rowHeights[2])
}

func TestUsedColumnsTrackMergeFillers(t *testing.T) {
	_, sh := newTestSheet(t)
	require.NoError(t, sh.AddMergedStringCell(1, 2, 1, 4, "wide"))

	assert.Equal(t, map[uint32]struct{}{2: {}, 3: {}, 4: {}}, sh.usedCols)
}
