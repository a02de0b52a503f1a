package wbk

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adnsv/go-wbk/flatzip"
)

// Workbook assembles sheets and a deduplicated style catalog into one
// spreadsheet document. Each Publish produces one document and clears
// the sheet list; a Workbook may then be filled and published again.
type Workbook struct {
	// AppName labels the generating application in the document
	// metadata. Empty means "wbk".
	AppName string
	// Now supplies the document timestamps, both the core-properties
	// stamp and the archive entry modification times. Nil means
	// time.Now.
	Now func() time.Time

	sheets []*Sheet
	styles []Style
	zip    flatzip.Writer
}

func NewWorkbook() *Workbook {
	return &Workbook{}
}

// AddSheet appends a worksheet with the given display name and returns
// it. Names are limited to 31 characters, must not contain any of
// :\/?*[], must not begin or end with a single quote, and collide
// case-insensitively with existing sheet names.
func (wb *Workbook) AddSheet(name string) (*Sheet, error) {
	if err := validateSheetName(name); err != nil {
		return nil, err
	}
	for _, sh := range wb.sheets {
		if strings.EqualFold(sh.name, name) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSheet, name)
		}
	}
	sheet := &Sheet{
		workbook:   wb,
		name:       name,
		id:         len(wb.sheets) + 1,
		cells:      map[Ref]cell{},
		usedCols:   map[uint32]struct{}{},
		colWidths:  map[uint32]float64{},
		rowHeights: map[uint32]float64{},
	}
	wb.sheets = append(wb.sheets, sheet)
	return sheet, nil
}

func validateSheetName(s string) error {
	if s == "" {
		return fmt.Errorf("%w: sheet name", ErrEmptyName)
	}
	if utf8.RuneCountInString(s) > 31 {
		return fmt.Errorf("%w: %q is longer than 31 characters", ErrSheetName, s)
	}
	if strings.HasPrefix(s, "'") || strings.HasSuffix(s, "'") {
		return fmt.Errorf("%w: %q starts or ends with a single quote", ErrSheetName, s)
	}
	if strings.ContainsAny(s, `:\/?*[]`) {
		return fmt.Errorf(`%w: %q contains one of :\/?*[]`, ErrSheetName, s)
	}
	return nil
}

// AddStyle registers style in the workbook catalog and returns its
// index. Styles deduplicate by value: an equal style returns the index
// of its first registration. Cell adds call this implicitly; it is
// exported for callers that want to pre-build a catalog.
func (wb *Workbook) AddStyle(style Style) int {
	for i, existing := range wb.styles {
		if existing == style {
			return i
		}
	}
	wb.styles = append(wb.styles, style)
	return len(wb.styles) - 1
}

// Publish renders every part and writes the document to path as a
// store-only archive. On success the sheet list is cleared. On failure
// whatever partial file exists at path is not a valid document and
// must be discarded by the caller.
func (wb *Workbook) Publish(path string) error {
	if path == "" {
		return fmt.Errorf("%w: output path", ErrEmptyName)
	}
	if len(wb.sheets) == 0 {
		return ErrNoSheets
	}
	wb.zip.Now = wb.Now
	if err := wb.zip.Open(path); err != nil {
		return err
	}
	if err := wb.writeParts(); err != nil {
		wb.zip.Close()
		return err
	}
	if err := wb.zip.Finalize(); err != nil {
		wb.zip.Close()
		return err
	}
	wb.sheets = nil
	return nil
}

func (wb *Workbook) writeParts() error {
	if err := wb.zip.AddFile("[Content_Types].xml", wb.renderContentTypes()); err != nil {
		return err
	}
	if err := wb.zip.AddFile("_rels/.rels", wb.renderRootRels()); err != nil {
		return err
	}
	if err := wb.zip.AddFile("docProps/app.xml", wb.renderAppProperties()); err != nil {
		return err
	}
	if err := wb.zip.AddFile("docProps/core.xml", wb.renderCoreProperties()); err != nil {
		return err
	}
	if err := wb.zip.AddFile("xl/_rels/workbook.xml.rels", wb.renderWorkbookRels()); err != nil {
		return err
	}
	if err := wb.zip.AddFile("xl/styles.xml", wb.renderStyles()); err != nil {
		return err
	}
	if err := wb.zip.AddFile("xl/workbook.xml", wb.renderWorkbook()); err != nil {
		return err
	}
	for _, sh := range wb.sheets {
		if err := wb.zip.AddFile(sh.partName(), sh.render()); err != nil {
			return err
		}
	}
	return nil
}
