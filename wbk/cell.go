package wbk

// cellKind is the kind of value a cell holds.
type cellKind uint8

const (
	kindNumber cellKind = iota
	kindFormula
	kindString
	kindEmpty
)

// cell is one occupied position in a sheet. Merged regions materialize
// as a real cell at the anchor plus empty cells carrying the same
// style across the rest of the rectangle.
type cell struct {
	kind  cellKind
	num   float64 // kindNumber
	str   string  // kindFormula, kindString
	style int     // index into the workbook style catalog
}
