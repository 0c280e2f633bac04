package exporter

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"

	"logisticsmart/pkg/contracts/domain"
)

// docxParts are the static members of the package
var docxParts = []struct {
	name string
	body string
}{
	{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`},
	{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
	{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`},
	{"word/styles.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/><w:sz w:val="22"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:pPr><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:color w:val="08C6FF"/><w:sz w:val="32"/></w:rPr></w:style>
<w:style w:type="table" w:styleId="ReportGrid"><w:name w:val="Report Grid"/><w:tblPr><w:tblBorders><w:top w:val="single" w:sz="4" w:color="DDDDDD"/><w:left w:val="single" w:sz="4" w:color="DDDDDD"/><w:bottom w:val="single" w:sz="4" w:color="DDDDDD"/><w:right w:val="single" w:sz="4" w:color="DDDDDD"/><w:insideH w:val="single" w:sz="4" w:color="DDDDDD"/><w:insideV w:val="single" w:sz="4" w:color="DDDDDD"/></w:tblBorders></w:tblPr></w:style>
</w:styles>`},
}

var documentTemplate = template.Must(template.New("document").Funcs(template.FuncMap{
	"x": xmlText,
}).Parse(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t xml:space="preserve">{{x .Meta.Title}}</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">{{x .Meta.GeneratedLine}}</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">{{x .Meta.RecordsLine}}</w:t></w:r></w:p>
<w:p/>
{{- if .Rows}}
<w:tbl>
<w:tblPr><w:tblStyle w:val="ReportGrid"/><w:tblW w:w="5000" w:type="pct"/></w:tblPr>
<w:tr><w:trPr><w:tblHeader/></w:trPr>{{range .Columns}}<w:tc><w:p><w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">{{x .}}</w:t></w:r></w:p></w:tc>{{end}}</w:tr>
{{- range .Rows}}
<w:tr>{{range .}}<w:tc><w:p><w:r><w:t xml:space="preserve">{{x .}}</w:t></w:r></w:p></w:tc>{{end}}</w:tr>
{{- end}}
</w:tbl>
{{- end}}
<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1080" w:right="1080" w:bottom="1080" w:left="1080" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>
</w:body>
</w:document>`))

// DocxBytes renders t as a Word document: a heading, the generation time,
// the record count and a table whose header row repeats the column names.
// An empty table produces no table element.
func DocxBytes(t *domain.Table, meta Metadata) ([]byte, error) {
	var doc bytes.Buffer
	err := documentTemplate.Execute(&doc, struct {
		Meta    Metadata
		Columns []string
		Rows    [][]string
	}{meta, t.Columns, tableText(t)})
	if err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range docxParts {
		if err := writeZipPart(zw, part.name, []byte(part.body)); err != nil {
			return nil, err
		}
	}
	if err := writeZipPart(zw, "word/document.xml", doc.Bytes()); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish document: %w", err)
	}
	return buf.Bytes(), nil
}

func writeZipPart(zw *zip.Writer, name string, body []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func xmlText(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
