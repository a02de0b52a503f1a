package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/adnsv/go-wbk/wbk"
	"gopkg.in/yaml.v3"
)

// WorkbookConfig describes a workbook layout loaded from YAML.
type WorkbookConfig struct {
	AppName string        `json:"appname,omitempty" yaml:"appname,omitempty"`
	Output  string        `json:"output,omitempty"  yaml:"output,omitempty"`
	Sheets  []SheetConfig `json:"sheets"            yaml:"sheets"`
}

// SheetConfig describes one sheet of the workbook.
type SheetConfig struct {
	Name    string         `json:"name"              yaml:"name"`
	Cells   []CellConfig   `json:"cells,omitempty"   yaml:"cells,omitempty"`
	Columns []ColumnConfig `json:"columns,omitempty" yaml:"columns,omitempty"`
	Rows    []RowConfig    `json:"rows,omitempty"    yaml:"rows,omitempty"`
}

// CellConfig describes one cell. Number, Formula or String supplies the
// content (checked in that order); a non-empty To makes the cell the anchor
// of a merged region spanning Ref:To.
type CellConfig struct {
	Ref     string       `json:"ref"               yaml:"ref"` // e.g. "A1"
	To      string       `json:"to,omitempty"      yaml:"to,omitempty"`
	Number  *float64     `json:"number,omitempty"  yaml:"number,omitempty"`
	Formula string       `json:"formula,omitempty" yaml:"formula,omitempty"`
	String  string       `json:"string,omitempty"  yaml:"string,omitempty"`
	Style   *StyleConfig `json:"style,omitempty"   yaml:"style,omitempty"`
}

// StyleConfig selects cell formatting by name.
type StyleConfig struct {
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // general, text, fix2, sci4, pct0, ...
	Align  string `json:"align,omitempty"  yaml:"align,omitempty"`  // left, center, right
	VAlign string `json:"valign,omitempty" yaml:"valign,omitempty"` // top, center, bottom
	Wrap   bool   `json:"wrap,omitempty"   yaml:"wrap,omitempty"`
	Bold   bool   `json:"bold,omitempty"   yaml:"bold,omitempty"`
}

// ColumnConfig sets the display width of one column.
type ColumnConfig struct {
	Column string  `json:"column" yaml:"column"` // e.g. "B"
	Width  float64 `json:"width"  yaml:"width"`
}

// RowConfig sets the display height of one row.
type RowConfig struct {
	Row    uint32  `json:"row"    yaml:"row"`
	Height float64 `json:"height" yaml:"height"`
}

// LoadWorkbookConfig loads a workbook layout from a YAML file.
func LoadWorkbookConfig(path string) (*WorkbookConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook layout file: %w", err)
	}

	var cfg WorkbookConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse workbook layout: %w", err)
	}

	return &cfg, nil
}

func (sc *StyleConfig) resolve() (wbk.Style, error) {
	st := wbk.Style{Wrap: sc.Wrap, Bold: sc.Bold}

	format, err := parseFormat(sc.Format)
	if err != nil {
		return st, err
	}
	st.Format = format

	switch sc.Align {
	case "":
	case "left":
		st.Horiz = wbk.HLeft
	case "center":
		st.Horiz = wbk.HCenter
	case "right":
		st.Horiz = wbk.HRight
	default:
		return st, fmt.Errorf("unknown horizontal alignment %q", sc.Align)
	}

	switch sc.VAlign {
	case "", "bottom":
	case "center":
		st.Vert = wbk.VCenter
	case "top":
		st.Vert = wbk.VTop
	default:
		return st, fmt.Errorf("unknown vertical alignment %q", sc.VAlign)
	}

	return st, nil
}

// parseFormat maps a format name like "fix2", "sci0" or "pct10" onto the
// matching number format. The library clamps out-of-range precision, but a
// layout spelling one out explicitly gets an error instead.
func parseFormat(s string) (wbk.NumberFormat, error) {
	switch s {
	case "", "general":
		return wbk.FormatGeneral, nil
	case "text":
		return wbk.FormatText, nil
	}
	for _, prefix := range []string{"fix", "sci", "pct"} {
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		places, err := strconv.Atoi(s[len(prefix):])
		if err != nil || places < 0 || places > 16 {
			return wbk.FormatGeneral, fmt.Errorf("unknown number format %q", s)
		}
		switch prefix {
		case "fix":
			return wbk.Fix(places), nil
		case "sci":
			return wbk.Sci(places), nil
		default:
			return wbk.Pct(places), nil
		}
	}
	return wbk.FormatGeneral, fmt.Errorf("unknown number format %q", s)
}
