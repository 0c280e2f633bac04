package exporter

import (
	"bytes"
	"fmt"
	"html/template"

	"logisticsmart/internal/config"
	"logisticsmart/pkg/contracts/domain"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<title>{{.Meta.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; color: #333; }
.header { text-align: center; margin-bottom: 30px; border-bottom: 2px solid #08c6ff; padding-bottom: 20px; }
.header h1 { color: #08c6ff; margin: 0; }
.info { margin-bottom: 20px; background-color: #f8f9fa; padding: 15px; border-radius: 5px; }
table { width: 100%; border-collapse: collapse; margin-top: 20px; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #08c6ff; color: white; font-weight: bold; }
tr:nth-child(even) { background-color: #f2f2f2; }
thead { display: table-header-group; }
tr { page-break-inside: avoid; }
.footer { margin-top: 30px; text-align: center; font-size: 12px; color: #666; border-top: 1px solid #ddd; padding-top: 15px; }
</style>
</head>
<body>
<div class="header">
<h1>{{.Meta.Title}}</h1>
<p>{{.Product}} - Sistema Inteligente de Análise de Entregas</p>
</div>
<div class="info">
<p><strong>Data de Geração:</strong> {{.Generated}}</p>
<p><strong>Total de Registros:</strong> {{.Meta.Records}}</p>
</div>
<table id="data_table" class="data-table">
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
<div class="footer">
<p>Relatório gerado automaticamente pelo {{.Product}}</p>
</div>
</body>
</html>
`))

// RenderHTML builds the printable report used for PDF output. Cell values
// are escaped.
func RenderHTML(t *domain.Table, meta Metadata) ([]byte, error) {
	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, struct {
		Meta      Metadata
		Product   string
		Generated string
		Columns   []string
		Rows      [][]string
	}{
		Meta:      meta,
		Product:   fmt.Sprintf("%s v%s", config.AppName, config.AppVersion),
		Generated: meta.GeneratedAt.Format(dateTimeLayout),
		Columns:   t.Columns,
		Rows:      tableText(t),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
