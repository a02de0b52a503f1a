package wbk

import "strings"

// Style describes cell formatting. Styles are plain comparable values;
// the workbook catalog deduplicates them structurally, so two cells
// given equal styles share one catalog entry. The zero value is the
// default style: General number format, default alignment, no wrap,
// no bold.
type Style struct {
	Format NumberFormat
	Horiz  HAlign
	Vert   VAlign
	Wrap   bool
	Bold   bool
}

// NumberFormat selects how a numeric cell value displays. The value
// doubles as the style sheet's numFmtId: FormatGeneral and FormatText
// are builtin ids, while Fix, Sci and Pct yield ids in the custom
// range that are declared with matching format codes.
type NumberFormat uint16

const (
	FormatGeneral NumberFormat = 0  // the format applied when none is specified
	FormatText    NumberFormat = 49 // display as text, the string-cell default

	fixBase NumberFormat = 100
	sciBase NumberFormat = 117
	pctBase NumberFormat = 134

	maxPlaces = 16
)

// Fix returns a fixed-point format showing the given number of decimal
// places, clamped to [0, 16].
func Fix(places int) NumberFormat { return fixBase + NumberFormat(clampPlaces(places)) }

// Sci returns a scientific-notation format showing the given number of
// decimal places, clamped to [0, 16].
func Sci(places int) NumberFormat { return sciBase + NumberFormat(clampPlaces(places)) }

// Pct returns a percentage format showing the given number of decimal
// places, clamped to [0, 16]. A cell value of 0.1 displays as 10%.
func Pct(places int) NumberFormat { return pctBase + NumberFormat(clampPlaces(places)) }

func clampPlaces(p int) int {
	if p < 0 {
		return 0
	}
	if p > maxPlaces {
		return maxPlaces
	}
	return p
}

// custom reports whether f needs its own numFmt declaration in the
// style sheet; builtin ids render without one.
func (f NumberFormat) custom() bool { return f >= fixBase }

// formatCode returns the code declared for a custom id: "0.00" shapes
// for Fix, "0.00E+00" for Sci, "0.00%" for Pct.
func (f NumberFormat) formatCode() string {
	switch {
	case f >= pctBase && f <= pctBase+maxPlaces:
		return placesCode(int(f-pctBase)) + "%"
	case f >= sciBase && f <= sciBase+maxPlaces:
		return placesCode(int(f-sciBase)) + "E+00"
	case f >= fixBase && f <= fixBase+maxPlaces:
		return placesCode(int(f - fixBase))
	}
	return ""
}

func placesCode(places int) string {
	if places == 0 {
		return "0"
	}
	return "0." + strings.Repeat("0", places)
}

// HAlign is the horizontal alignment of a cell's value.
type HAlign uint8

const (
	HGeneral HAlign = iota // numbers right, text left
	HLeft
	HCenter
	HRight
)

func (a HAlign) attrValue() string {
	switch a {
	case HLeft:
		return "left"
	case HCenter:
		return "center"
	case HRight:
		return "right"
	}
	return ""
}

// VAlign is the vertical alignment of a cell's value.
type VAlign uint8

const (
	VBottom VAlign = iota
	VCenter
	VTop
)

func (a VAlign) attrValue() string {
	switch a {
	case VCenter:
		return "center"
	case VTop:
		return "top"
	}
	return ""
}

// defaultAlignment reports whether the style needs no alignment
// element in its xf.
func (s Style) defaultAlignment() bool {
	return s.Horiz == HGeneral && s.Vert == VBottom && !s.Wrap
}
