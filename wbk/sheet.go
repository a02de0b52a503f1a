package wbk

import (
	"fmt"
	"strings"
)

// Cell content and layout limits of the target format.
const (
	MaxFormulaLen = 8192
	MaxStringLen  = 32767
	MaxLineBreaks = 253

	MaxColumnWidth = 255.0 // character units
	MaxRowHeight   = 409.0 // points
)

type mergeRegion struct {
	start Ref
	end   Ref
}

// Sheet is one worksheet under construction. Sheets are created
// through Workbook.AddSheet, which assigns the part name and
// relationship id; the zero value is not usable.
type Sheet struct {
	workbook *Workbook
	name     string
	id       int // 1-based ordinal, drives part and relationship naming

	cells      map[Ref]cell
	merges     []mergeRegion
	usedCols   map[uint32]struct{}
	colWidths  map[uint32]float64
	rowHeights map[uint32]float64
}

// Name returns the sheet's display name.
func (s *Sheet) Name() string { return s.name }

func (s *Sheet) partName() string { return fmt.Sprintf("xl/worksheets/sheet%d.xml", s.id) }
func (s *Sheet) relID() string    { return fmt.Sprintf("rId%d", s.id+1) }

// AddNumberCell places a numeric value at the given 1-based row and
// column. At most one cell may occupy a reference; a second add at the
// same place fails with ErrDuplicateCell and changes nothing.
func (s *Sheet) AddNumberCell(row, col uint32, value float64, style ...Style) error {
	ref := Ref{Row: row, Col: col}
	if err := s.checkFree(ref); err != nil {
		return err
	}
	s.put(ref, cell{kind: kindNumber, num: value, style: s.resolveStyle(style, Style{})})
	return nil
}

// AddNumberCellAt is AddNumberCell addressed by a mixed text reference
// such as "B12".
func (s *Sheet) AddNumberCellAt(ref string, value float64, style ...Style) error {
	r, err := ParseRef(ref)
	if err != nil {
		return err
	}
	return s.AddNumberCell(r.Row, r.Col, value, style...)
}

// AddFormulaCell places a formula at the given 1-based row and column.
// The formula text is stored verbatim, without a leading "=", and may
// be at most 8192 bytes.
func (s *Sheet) AddFormulaCell(row, col uint32, formula string, style ...Style) error {
	ref := Ref{Row: row, Col: col}
	if err := s.checkFree(ref); err != nil {
		return err
	}
	if err := validateFormula(formula); err != nil {
		return err
	}
	s.put(ref, cell{kind: kindFormula, str: formula, style: s.resolveStyle(style, Style{})})
	return nil
}

// AddFormulaCellAt is AddFormulaCell addressed by a mixed text
// reference.
func (s *Sheet) AddFormulaCellAt(ref string, formula string, style ...Style) error {
	r, err := ParseRef(ref)
	if err != nil {
		return err
	}
	return s.AddFormulaCell(r.Row, r.Col, formula, style...)
}

// AddStringCell places a string value at the given 1-based row and
// column. Strings may be at most 32767 bytes with at most 253 line
// breaks. When no style is supplied the cell uses the text format.
func (s *Sheet) AddStringCell(row, col uint32, value string, style ...Style) error {
	ref := Ref{Row: row, Col: col}
	if err := s.checkFree(ref); err != nil {
		return err
	}
	if err := validateString(value); err != nil {
		return err
	}
	s.put(ref, cell{kind: kindString, str: value, style: s.resolveStyle(style, Style{Format: FormatText})})
	return nil
}

// AddStringCellAt is AddStringCell addressed by a mixed text
// reference.
func (s *Sheet) AddStringCellAt(ref string, value string, style ...Style) error {
	r, err := ParseRef(ref)
	if err != nil {
		return err
	}
	return s.AddStringCell(r.Row, r.Col, value, style...)
}

// AddMergedNumberCell places a numeric value merged across the
// rectangle spanned by the start and end references. The value lands
// at the start corner; every other position receives an empty cell
// with the same style, so overlapping merges fail the ordinary
// duplicate-cell check.
func (s *Sheet) AddMergedNumberCell(startRow, startCol, endRow, endCol uint32, value float64, style ...Style) error {
	start := Ref{Row: startRow, Col: startCol}
	end := Ref{Row: endRow, Col: endCol}
	return s.addMerged(start, end, cell{kind: kindNumber, num: value}, style, Style{})
}

// AddMergedNumberCellAt is AddMergedNumberCell addressed by mixed text
// references for the two corners.
func (s *Sheet) AddMergedNumberCellAt(start, end string, value float64, style ...Style) error {
	sr, er, err := parseCorners(start, end)
	if err != nil {
		return err
	}
	return s.AddMergedNumberCell(sr.Row, sr.Col, er.Row, er.Col, value, style...)
}

// AddMergedFormulaCell places a formula merged across the rectangle
// spanned by the start and end references.
func (s *Sheet) AddMergedFormulaCell(startRow, startCol, endRow, endCol uint32, formula string, style ...Style) error {
	if err := validateFormula(formula); err != nil {
		return err
	}
	start := Ref{Row: startRow, Col: startCol}
	end := Ref{Row: endRow, Col: endCol}
	return s.addMerged(start, end, cell{kind: kindFormula, str: formula}, style, Style{})
}

// AddMergedFormulaCellAt is AddMergedFormulaCell addressed by mixed
// text references for the two corners.
func (s *Sheet) AddMergedFormulaCellAt(start, end string, formula string, style ...Style) error {
	sr, er, err := parseCorners(start, end)
	if err != nil {
		return err
	}
	return s.AddMergedFormulaCell(sr.Row, sr.Col, er.Row, er.Col, formula, style...)
}

// AddMergedStringCell places a string value merged across the
// rectangle spanned by the start and end references.
func (s *Sheet) AddMergedStringCell(startRow, startCol, endRow, endCol uint32, value string, style ...Style) error {
	if err := validateString(value); err != nil {
		return err
	}
	start := Ref{Row: startRow, Col: startCol}
	end := Ref{Row: endRow, Col: endCol}
	return s.addMerged(start, end, cell{kind: kindString, str: value}, style, Style{Format: FormatText})
}

// AddMergedStringCellAt is AddMergedStringCell addressed by mixed text
// references for the two corners.
func (s *Sheet) AddMergedStringCellAt(start, end string, value string, style ...Style) error {
	sr, er, err := parseCorners(start, end)
	if err != nil {
		return err
	}
	return s.AddMergedStringCell(sr.Row, sr.Col, er.Row, er.Col, value, style...)
}

// SetColumnWidth overrides the display width of a 1-based column, in
// character units within [0, 255]. The last write for a column wins.
// The override only renders if some cell occupies the column.
func (s *Sheet) SetColumnWidth(col uint32, width float64) error {
	if col < 1 || col > MaxCol {
		return fmt.Errorf("%w: column %d", ErrRange, col)
	}
	if width < 0 || width > MaxColumnWidth {
		return fmt.Errorf("%w: column width %v", ErrRange, width)
	}
	s.colWidths[col] = width
	return nil
}

// SetColumnWidthAt is SetColumnWidth addressed by column letters.
func (s *Sheet) SetColumnWidthAt(column string, width float64) error {
	col, err := ColumnToIndex(column)
	if err != nil {
		return err
	}
	return s.SetColumnWidth(col, width)
}

// SetRowHeight overrides the display height of a 1-based row, in
// points within [0, 409]. The last write for a row wins. The override
// only renders if the row holds at least one cell.
func (s *Sheet) SetRowHeight(row uint32, height float64) error {
	if row < 1 || row > MaxRow {
		return fmt.Errorf("%w: row %d", ErrRange, row)
	}
	if height < 0 || height > MaxRowHeight {
		return fmt.Errorf("%w: row height %v", ErrRange, height)
	}
	s.rowHeights[row] = height
	return nil
}

// addMerged validates the rectangle, then fills it cell by cell with
// the anchor at start. A duplicate part way through leaves the
// already-placed cells in the sheet; the workbook is expected to be
// abandoned after such a failure, never published.
func (s *Sheet) addMerged(start, end Ref, anchor cell, style []Style, fallback Style) error {
	if !validRef(start) {
		return fmt.Errorf("%w: row %d, column %d", ErrRange, start.Row, start.Col)
	}
	if !validRef(end) {
		return fmt.Errorf("%w: row %d, column %d", ErrRange, end.Row, end.Col)
	}
	// start must be the upper left corner and the region must cover
	// more than one cell; one-row or one-column strips are fine
	if start == end || start.Row > end.Row || start.Col > end.Col {
		return fmt.Errorf("%w: %s:%s", ErrInvalidMerge, start, end)
	}
	anchor.style = s.resolveStyle(style, fallback)
	for row := start.Row; row <= end.Row; row++ {
		for col := start.Col; col <= end.Col; col++ {
			ref := Ref{Row: row, Col: col}
			if err := s.checkFree(ref); err != nil {
				return err
			}
			if ref == start {
				s.put(ref, anchor)
			} else {
				s.put(ref, cell{kind: kindEmpty, style: anchor.style})
			}
		}
	}
	s.merges = append(s.merges, mergeRegion{start: start, end: end})
	return nil
}

func (s *Sheet) checkFree(ref Ref) error {
	if !validRef(ref) {
		return fmt.Errorf("%w: row %d, column %d", ErrRange, ref.Row, ref.Col)
	}
	if _, occupied := s.cells[ref]; occupied {
		return fmt.Errorf("%w: %s", ErrDuplicateCell, ref)
	}
	return nil
}

func (s *Sheet) put(ref Ref, c cell) {
	s.cells[ref] = c
	s.usedCols[ref.Col] = struct{}{}
}

func (s *Sheet) resolveStyle(style []Style, fallback Style) int {
	if len(style) > 0 {
		return s.workbook.AddStyle(style[0])
	}
	return s.workbook.AddStyle(fallback)
}

func parseCorners(start, end string) (sr, er Ref, err error) {
	sr, err = ParseRef(start)
	if err != nil {
		return Ref{}, Ref{}, err
	}
	er, err = ParseRef(end)
	if err != nil {
		return Ref{}, Ref{}, err
	}
	return sr, er, nil
}

func validateFormula(formula string) error {
	if len(formula) > MaxFormulaLen {
		return fmt.Errorf("%w: %d bytes", ErrFormulaTooLong, len(formula))
	}
	return nil
}

func validateString(value string) error {
	if len(value) > MaxStringLen {
		return fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(value))
	}
	if n := strings.Count(value, "\n"); n > MaxLineBreaks {
		return fmt.Errorf("%w: %d", ErrTooManyLineBreaks, n)
	}
	return nil
}
