package wbk

import "errors"

// Validation errors raised by the reference, sheet and workbook layers.
// They are wrapped with context where raised; discriminate with
// errors.Is.
var (
	ErrSyntax            = errors.New("wbk: malformed cell reference")
	ErrRange             = errors.New("wbk: value out of range")
	ErrDuplicateCell     = errors.New("wbk: cell already occupied")
	ErrInvalidMerge      = errors.New("wbk: invalid merge region")
	ErrEmptyName         = errors.New("wbk: empty name")
	ErrSheetName         = errors.New("wbk: invalid sheet name")
	ErrDuplicateSheet    = errors.New("wbk: duplicate sheet name")
	ErrNoSheets          = errors.New("wbk: workbook has no sheets")
	ErrFormulaTooLong    = errors.New("wbk: formula too long")
	ErrStringTooLong     = errors.New("wbk: string too long")
	ErrTooManyLineBreaks = errors.New("wbk: too many line breaks in string")
)
