package exporter

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logisticsmart/internal/shared/testutil"
)

func docxPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(b)
	}
	t.Fatalf("%s not found", name)
	return ""
}

func TestDocxBytes(t *testing.T) {
	table := testutil.Table([]string{"Entregador", "Observação"},
		[]any{"João", "Cliente <ausente> & sem telefone"},
		[]any{"Maria", nil},
	)
	meta := Metadata{Title: "Relatório de Entregas", GeneratedAt: time.Date(2025, 1, 5, 9, 0, 0, 0, time.Local), Records: 2}

	data, err := DocxBytes(table, meta)
	require.NoError(t, err)

	for _, part := range []string{"[Content_Types].xml", "_rels/.rels", "word/styles.xml", "word/_rels/document.xml.rels"} {
		assert.NotEmpty(t, docxPart(t, data, part))
	}

	doc := docxPart(t, data, "word/document.xml")
	require.NoError(t, xml.Unmarshal([]byte(doc), new(struct{})), "document.xml is well formed")

	assert.Contains(t, doc, `<w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t xml:space="preserve">Relatório de Entregas</w:t>`)
	assert.Contains(t, doc, "Gerado em: 05/01/2025 09:00:00")
	assert.Contains(t, doc, "Total de registros: 2")
	assert.Contains(t, doc, "Cliente &lt;ausente&gt; &amp; sem telefone")
	assert.Contains(t, doc, "<w:tblHeader/>")
	assert.Equal(t, 3, strings.Count(doc, "<w:tr>"), "header and two data rows")
}

func TestDocxBytes_EmptyTableHasNoGrid(t *testing.T) {
	data, err := DocxBytes(testutil.Table([]string{"Entregador"}), Metadata{Title: "Relatório de Entregas", GeneratedAt: time.Now()})
	require.NoError(t, err)

	doc := docxPart(t, data, "word/document.xml")
	assert.NotContains(t, doc, "<w:tbl>")
	assert.Contains(t, doc, "Total de registros: 0")
}
