// Package exporter renders delivery tables as downloadable documents.
//
// Excel workbooks are written with excelize, CSV with a UTF-8 BOM and ';'
// separator, Word documents as Office Open XML and PDF by printing an HTML
// report in headless Chrome through chromedp. Manager ties the formats
// together and reports which of them are usable on this host:
//
//	m := exporter.NewManager(cfg.Export, metrics, logger)
//	for _, r := range m.ExportMultiple(ctx, table, []domain.ExportFormat{domain.FormatExcel, domain.FormatPDF}) {
//		if r.Err != nil {
//			continue
//		}
//		_ = os.WriteFile(r.Filename, r.Data, 0o644)
//	}
package exporter
