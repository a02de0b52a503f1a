package wbk

import (
	"bytes"
	"cmp"
	"hash/fnv"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/adnsv/srw/xml"
	"github.com/google/uuid"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

type relInfo struct {
	Type   string // url to schema type
	Target string // path relative to the rels file's parent
}

func (wb *Workbook) renderContentTypes() []byte {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Types")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")

	x.OTag("+Default").Attr("Extension", "rels").
		Attr("ContentType", "application/vnd.openxmlformats-package.relationships+xml").CTag()
	x.OTag("+Default").Attr("Extension", "xml").
		Attr("ContentType", "application/xml").CTag()

	x.OTag("+Override").Attr("PartName", "/xl/workbook.xml").
		Attr("ContentType", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml").CTag()
	for _, sh := range wb.sheets {
		x.OTag("+Override").Attr("PartName", "/"+sh.partName()).
			Attr("ContentType", "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml").CTag()
	}
	x.OTag("+Override").Attr("PartName", "/xl/styles.xml").
		Attr("ContentType", "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml").CTag()
	x.OTag("+Override").Attr("PartName", "/docProps/core.xml").
		Attr("ContentType", "application/vnd.openxmlformats-package.core-properties+xml").CTag()
	x.OTag("+Override").Attr("PartName", "/docProps/app.xml").
		Attr("ContentType", "application/vnd.openxmlformats-officedocument.extended-properties+xml").CTag()

	x.CTag()

	return bb.Bytes()
}

func (wb *Workbook) renderRootRels() []byte {
	return renderRels(map[string]relInfo{
		"rId1": {
			Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument",
			Target: "xl/workbook.xml",
		},
		"rId2": {
			Type:   "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties",
			Target: "docProps/core.xml",
		},
		"rId3": {
			Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties",
			Target: "docProps/app.xml",
		},
	})
}

func (wb *Workbook) renderWorkbookRels() []byte {
	rels := map[string]relInfo{
		"rId1": {
			Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles",
			Target: "styles.xml",
		},
	}
	for _, sh := range wb.sheets {
		rels[sh.relID()] = relInfo{
			Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet",
			Target: strings.TrimPrefix(sh.partName(), "xl/"),
		}
	}
	return renderRels(rels)
}

func renderRels(rels map[string]relInfo) []byte {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Relationships")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
	enumerate(rels, func(rid string, info relInfo) error {
		x.OTag("+Relationship").Attr("Id", rid).Attr("Type", info.Type).Attr("Target", info.Target)
		x.CTag()
		return nil
	})
	x.CTag()

	return bb.Bytes()
}

func (wb *Workbook) renderAppProperties() []byte {
	appname := wb.AppName
	if appname == "" {
		appname = "wbk"
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Properties")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	x.Attr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")

	x.OTag("+Application").String(appname).CTag()
	x.OTag("+AppVersion").String("1.0").CTag()
	x.OTag("+DocSecurity").String("0").CTag()
	x.OTag("+ScaleCrop").String("false").CTag()

	x.OTag("+HeadingPairs")
	x.OTag("+vt:vector").Attr("size", 2).Attr("baseType", "variant")
	x.OTag("+vt:variant")
	x.OTag("+vt:lpstr").String("Worksheets").CTag()
	x.CTag()
	x.OTag("+vt:variant")
	x.OTag("+vt:i4").Write(len(wb.sheets)).CTag()
	x.CTag()
	x.CTag()
	x.CTag()

	x.OTag("+TitlesOfParts")
	x.OTag("+vt:vector").Attr("size", len(wb.sheets)).Attr("baseType", "lpstr")
	for _, sh := range wb.sheets {
		x.OTag("+vt:lpstr").String(sh.name).CTag()
	}
	x.CTag()
	x.CTag()

	x.OTag("+LinksUpToDate").String("false").CTag()
	x.OTag("+SharedDoc").String("false").CTag()
	x.OTag("+HyperlinksChanged").String("false").CTag()

	x.CTag()

	return bb.Bytes()
}

func (wb *Workbook) renderCoreProperties() []byte {
	now := time.Now
	if wb.Now != nil {
		now = wb.Now
	}
	stamp := now().UTC().Format(time.RFC3339)

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("cp:coreProperties")
	x.Attr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	x.Attr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	x.Attr("xmlns:dcterms", "http://purl.org/dc/terms/")
	x.Attr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	x.Attr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	x.OTag("+dc:creator").CTag()
	x.OTag("+cp:lastModifiedBy").CTag()

	x.OTag("+dcterms:created")
	x.Attr("xsi:type", "dcterms:W3CDTF")
	x.Write(stamp)
	x.CTag()

	x.OTag("+dcterms:modified")
	x.Attr("xsi:type", "dcterms:W3CDTF")
	x.Write(stamp)
	x.CTag()

	x.CTag()

	return bb.Bytes()
}

func (wb *Workbook) renderStyles() []byte {
	styles := wb.styles
	if len(styles) == 0 {
		// a valid style sheet needs at least the default xf
		styles = []Style{{}}
	}

	customFmts := map[NumberFormat]struct{}{}
	for _, st := range styles {
		if st.Format.custom() {
			customFmts[st.Format] = struct{}{}
		}
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("styleSheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:mc", "http://schemas.openxmlformats.org/markup-compatibility/2006")

	if len(customFmts) > 0 {
		x.OTag("+numFmts").Attr("count", len(customFmts))
		enumerate(customFmts, func(f NumberFormat, _ struct{}) error {
			x.OTag("+numFmt").Attr("numFmtId", int(f)).Attr("formatCode", f.formatCode()).CTag()
			return nil
		})
		x.CTag()
	}

	x.OTag("+fonts").Attr("count", 2)
	for _, bold := range []bool{false, true} {
		x.OTag("+font")
		if bold {
			x.OTag("+b").CTag()
		}
		x.OTag("+sz").Attr("val", 12).CTag()
		x.OTag("+color").Attr("rgb", "FF000000").CTag()
		x.OTag("+name").Attr("val", "Calibri").CTag()
		x.OTag("+family").Attr("val", 2).CTag()
		x.OTag("+scheme").Attr("val", "minor").CTag()
		x.CTag()
	}
	x.CTag()

	x.OTag("+fills").Attr("count", 1)
	x.OTag("+fill")
	x.OTag("+patternFill").Attr("patternType", "none").CTag()
	x.CTag()
	x.CTag()

	x.OTag("+borders").Attr("count", 1)
	x.OTag("+border")
	x.OTag("+left").CTag()
	x.OTag("+right").CTag()
	x.OTag("+top").CTag()
	x.OTag("+bottom").CTag()
	x.OTag("+diagonal").CTag()
	x.CTag()
	x.CTag()

	x.OTag("+cellStyleXfs").Attr("count", 1)
	x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", 0).Attr("fillId", 0).Attr("borderId", 0).CTag()
	x.CTag()

	x.OTag("+cellXfs").Attr("count", len(styles))
	for _, st := range styles {
		fontID := 0
		if st.Bold {
			fontID = 1
		}
		x.OTag("+xf")
		x.Attr("numFmtId", int(st.Format))
		x.Attr("fontId", fontID)
		x.Attr("fillId", 0)
		x.Attr("borderId", 0)
		x.Attr("xfId", 0)
		if st.Format != FormatGeneral {
			x.Attr("applyNumberFormat", 1)
		}
		if st.Bold {
			x.Attr("applyFont", 1)
		}
		if !st.defaultAlignment() {
			x.Attr("applyAlignment", 1)
			x.OTag("+alignment")
			if v := st.Horiz.attrValue(); v != "" {
				x.Attr("horizontal", v)
			}
			if v := st.Vert.attrValue(); v != "" {
				x.Attr("vertical", v)
			}
			if st.Wrap {
				x.Attr("wrapText", 1)
			}
			x.CTag()
		}
		x.CTag()
	}
	x.CTag()

	x.OTag("+cellStyles").Attr("count", 1)
	x.OTag("+cellStyle").Attr("name", "Normal").Attr("xfId", 0).Attr("builtinId", 0).CTag()
	x.CTag()

	x.OTag("+dxfs").Attr("count", 0).CTag()
	x.OTag("+tableStyles").Attr("count", 0).CTag()

	x.CTag()

	return bb.Bytes()
}

func (wb *Workbook) renderWorkbook() []byte {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("workbook")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")
	x.Attr("xmlns:mc", "http://schemas.openxmlformats.org/markup-compatibility/2006")
	x.Attr("xmlns:xr", "http://schemas.microsoft.com/office/spreadsheetml/2014/revision")
	x.Attr("mc:Ignorable", "xr")

	x.OTag("+xr:revisionPtr")
	x.Attr("revIDLastSave", 0)
	x.Attr("documentId", "8_{"+wb.documentID()+"}")
	x.CTag()

	x.OTag("+sheets")
	for _, sh := range wb.sheets {
		x.OTag("+sheet")
		x.Attr("name", sh.name)
		x.Attr("sheetId", sh.id)
		x.Attr("r:id", sh.relID())
		x.CTag()
	}
	x.CTag()

	x.OTag("+calcPr").Attr("fullPrecision", 1).CTag()

	x.CTag()

	return bb.Bytes()
}

// documentID derives the revision pointer identity from the sheet
// names, so publishing the same workbook twice yields identical bytes.
func (wb *Workbook) documentID() string {
	h := fnv.New128()
	for _, sh := range wb.sheets {
		h.Write([]byte(sh.name))
		h.Write([]byte{0})
	}
	uid, _ := uuid.FromBytes(h.Sum([]byte{}))
	return strings.ToUpper(uid.String())
}

func (s *Sheet) render() []byte {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("worksheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")
	x.Attr("xmlns:mc", "http://schemas.openxmlformats.org/markup-compatibility/2006")

	x.OTag("+sheetViews")
	x.OTag("+sheetView").Attr("workbookViewId", 0).CTag()
	x.CTag()

	x.OTag("+sheetFormatPr").Attr("defaultRowHeight", 17).CTag()

	if len(s.usedCols) > 0 {
		x.OTag("+cols")
		enumerate(s.usedCols, func(col uint32, _ struct{}) error {
			x.OTag("+col").Attr("min", int(col)).Attr("max", int(col))
			if w, ok := s.colWidths[col]; ok {
				x.Attr("width", formatFloat(w)).Attr("customWidth", 1)
			} else {
				x.Attr("width", "10.7109375").Attr("bestFit", 1)
			}
			x.CTag()
			return nil
		})
		x.CTag()
	}

	if len(s.cells) == 0 {
		x.OTag("+sheetData").CTag()
	} else {
		refs := maps.Keys(s.cells)
		slices.SortFunc(refs, func(a, b Ref) int {
			if c := cmp.Compare(a.Row, b.Row); c != 0 {
				return c
			}
			return cmp.Compare(a.Col, b.Col)
		})

		x.OTag("+sheetData")
		row := uint32(0)
		for _, ref := range refs {
			if ref.Row != row {
				if row != 0 {
					x.CTag()
				}
				row = ref.Row
				x.OTag("+row").Attr("r", int(row))
				if h, ok := s.rowHeights[row]; ok {
					x.Attr("ht", formatFloat(h)).Attr("customHeight", 1)
				}
			}
			c := s.cells[ref]
			x.OTag("+c").Attr("r", ref.String()).Attr("s", c.style)
			switch c.kind {
			case kindNumber:
				x.OTag("v").Write(formatFloat(c.num)).CTag()
			case kindFormula:
				x.OTag("f").Write(c.str).CTag()
			case kindString:
				x.Attr("t", "inlineStr")
				x.OTag("is")
				x.OTag("t").Write(c.str).CTag()
				x.CTag()
			case kindEmpty:
				// reference and style only
			}
			x.CTag()
		}
		x.CTag() // row
		x.CTag() // sheetData
	}

	if len(s.merges) > 0 {
		regions := slices.Clone(s.merges)
		slices.SortFunc(regions, func(a, b mergeRegion) int {
			if c := cmp.Compare(a.start.Row, b.start.Row); c != 0 {
				return c
			}
			return cmp.Compare(a.start.Col, b.start.Col)
		})
		x.OTag("+mergeCells").Attr("count", len(regions))
		for _, m := range regions {
			x.OTag("+mergeCell").Attr("ref", m.start.String()+":"+m.end.String()).CTag()
		}
		x.CTag()
	}

	x.CTag()

	return bb.Bytes()
}

// formatFloat renders v in the shortest form that parses back to the
// same value.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'G', -1, 64)
}

func enumerate[M ~map[K]V, K constraints.Ordered, V any](m M, callback func(k K, v V) error) error {
	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		err := callback(k, m[k])
		if err != nil {
			return err
		}
	}
	return nil
}
