package wbk

import (
	"fmt"
	"strconv"
)

// Worksheet bounds as fixed by ECMA-376.
const (
	MaxRow uint32 = 1048576
	MaxCol uint32 = 16384
)

// Ref addresses a single cell by 1-based row and column numbers. The
// zero value is not a valid reference.
type Ref struct {
	Row uint32
	Col uint32
}

// String formats r in mixed text form ("B12") without validating
// bounds; use FormatRef when validation matters.
func (r Ref) String() string {
	return columnLetters(r.Col) + strconv.FormatUint(uint64(r.Row), 10)
}

// ColumnToIndex decodes bijective base-26 column letters into a
// 1-based column number: "A"=1, "Z"=26, "AA"=27, "XFD"=MaxCol.
// Lowercase letters are accepted. ErrSyntax for empty or
// non-alphabetic input, ErrRange past MaxCol.
func ColumnToIndex(letters string) (uint32, error) {
	if letters == "" {
		return 0, fmt.Errorf("%w: empty column", ErrSyntax)
	}
	var n uint32
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		switch {
		case c >= 'a' && c <= 'z':
			c -= 'a' - 'A'
		case c < 'A' || c > 'Z':
			return 0, fmt.Errorf("%w: column %q", ErrSyntax, letters)
		}
		if i < len(letters)-1 {
			n = 26 * (n + uint32(c-'A'+1))
		} else {
			n += uint32(c - 'A' + 1)
		}
		// checking inside the loop keeps long inputs from overflowing
		if n > MaxCol {
			return 0, fmt.Errorf("%w: column %q", ErrRange, letters)
		}
	}
	return n, nil
}

// IndexToColumn encodes a 1-based column number into letters, the
// exact inverse of ColumnToIndex over [1, MaxCol].
func IndexToColumn(col uint32) (string, error) {
	if col < 1 || col > MaxCol {
		return "", fmt.Errorf("%w: column %d", ErrRange, col)
	}
	return columnLetters(col), nil
}

func columnLetters(n uint32) string {
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		r := n % 26
		n--
		n /= 26
		i--
		if r == 0 {
			buf[i] = 'Z'
		} else {
			buf[i] = 'A' + byte(r) - 1
		}
	}
	return string(buf[i:])
}

// ParseRef parses a mixed text reference: column letters immediately
// followed by the row number with nothing else ("B12", "aa3").
// ErrSyntax for any other shape, ErrRange when either coordinate falls
// outside the sheet bounds.
func ParseRef(s string) (Ref, error) {
	split := 0
	for split < len(s) && isRefLetter(s[split]) {
		split++
	}
	if split == 0 || split == len(s) {
		return Ref{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	for i := split; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return Ref{}, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
	}
	col, err := ColumnToIndex(s[:split])
	if err != nil {
		return Ref{}, err
	}
	row, err := strconv.ParseUint(s[split:], 10, 64)
	if err != nil || row < 1 || row > uint64(MaxRow) {
		return Ref{}, fmt.Errorf("%w: row in %q", ErrRange, s)
	}
	return Ref{Row: uint32(row), Col: col}, nil
}

// FormatRef encodes r in mixed text form, validating bounds first.
func FormatRef(r Ref) (string, error) {
	if !validRef(r) {
		return "", fmt.Errorf("%w: row %d, column %d", ErrRange, r.Row, r.Col)
	}
	return r.String(), nil
}

func validRef(r Ref) bool {
	return r.Row >= 1 && r.Row <= MaxRow && r.Col >= 1 && r.Col <= MaxCol
}

func isRefLetter(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}
