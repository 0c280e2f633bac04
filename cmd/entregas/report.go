package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"logisticsmart/internal/dataprocessing"
	"logisticsmart/internal/exporter"
	"logisticsmart/internal/files"
	"logisticsmart/internal/infrastructure"
	"logisticsmart/internal/ingest"
	"logisticsmart/internal/services"
	"logisticsmart/internal/session"
	apiv1 "logisticsmart/pkg/contracts/api/v1"
	"logisticsmart/pkg/contracts/domain"
)

// cliUser owns the in-process session of a batch run
var cliUser = domain.User{Username: "entregas", Name: "Linha de comando", Role: domain.RoleAdmin, Active: true}

type reportOptions struct {
	file       string
	dir        string
	date       string
	from       string
	to         string
	status     string
	formats    []string
	out        string
	filters    []string
	rows       bool
	reportBase string
}

func newReportCmd(root *rootOptions) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Gera os relatórios agrupados por entregador",
		Long: `Carrega a planilha e gera um relatório por dia. Sem --date ou --from/--to
processa ontem, hoje e amanhã. Sem --file usa a planilha .xlsx mais recente de --dir.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, root.env, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "planilha de entregas (.xlsx, .xls ou .csv)")
	f.StringVar(&opts.dir, "dir", ".", "pasta onde procurar a planilha mais recente")
	f.StringVarP(&opts.date, "date", "d", "", "data única (DD/MM/AAAA ou AAAA-MM-DD)")
	f.StringVar(&opts.from, "from", "", "início do período")
	f.StringVar(&opts.to, "to", "", "fim do período")
	f.StringVarP(&opts.status, "status", "s", string(domain.StatusAll), "status: all, delivered ou pending")
	f.StringSliceVar(&opts.formats, "format", []string{string(domain.FormatExcel)}, "formatos: excel, csv, word, pdf")
	f.StringVarP(&opts.out, "out", "o", "", "pasta de saída (padrão: pasta de relatórios)")
	f.StringArrayVar(&opts.filters, "filter", nil, "filtro chave=valor, repetível")
	f.BoolVar(&opts.rows, "rows", false, "exporta as entregas em vez do resumo por entregador")
	f.StringVar(&opts.reportBase, "name", "entregas_agrupadas", "prefixo do nome dos arquivos")

	cmd.MarkFlagsMutuallyExclusive("date", "from")
	cmd.MarkFlagsMutuallyExclusive("date", "to")
	cmd.MarkFlagsRequiredTogether("from", "to")
	return cmd
}

// reportJob is one export of the batch: a filter and the file name it
// is saved under
type reportJob struct {
	label   string
	base    string
	filters domain.FilterSpec
}

func runReport(cmd *cobra.Command, env *environment, opts *reportOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = infrastructure.EnsureTraceID(ctx)
	out := cmd.OutOrStdout()

	mode := domain.StatusMode(strings.ToLower(opts.status))
	if !mode.Valid() {
		return fmt.Errorf("status inválido: %q", opts.status)
	}
	formats, err := parseFormats(opts.formats)
	if err != nil {
		return err
	}
	values, err := parseFilters(opts.filters)
	if err != nil {
		return err
	}
	jobs, err := opts.jobs(values)
	if err != nil {
		return err
	}

	file := opts.file
	if file == "" {
		latest, err := files.NewDiscovery("").LatestSheet(opts.dir, files.ExtXLSX)
		if err != nil {
			return fmt.Errorf("nenhum arquivo Excel encontrado em %s: %w", opts.dir, err)
		}
		file = latest.Path
		fmt.Fprintf(out, "Arquivo selecionado: %s\n", file)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("falha ao ler %s: %w", file, err)
	}

	reports, err := newReportService(env)
	if err != nil {
		return err
	}
	sess := session.New("cli", cliUser, clock())

	summary, err := reports.Load(ctx, sess, data, filepath.Base(file))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%d de %d linhas)\n", summary.Message, summary.Records, summary.RawRows)

	outDir := opts.out
	if outDir == "" {
		outDir = env.paths.ReportsDir
	}
	writer := exporter.NewReportWriter(outDir, env.logger)

	failed := 0
	for _, job := range jobs {
		fmt.Fprintf(out, "\nProcessando entregas para: %s\n", job.label)

		query := services.QueryRequest{Filters: job.filters, Mode: mode}
		result, err := reports.Query(ctx, sess, query)
		if err != nil {
			return err
		}
		if result.Table.Len() == 0 {
			fmt.Fprintf(out, "Nenhuma entrega para %s\n", job.label)
			continue
		}

		results, err := reports.Export(ctx, sess, services.ExportRequest{
			Query:      query,
			Formats:    formats,
			Aggregated: !opts.rows,
			BaseName:   job.base,
		})
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Fprintf(out, "✗ %s: %v\n", r.Filename, r.Err)
				continue
			}
			path, err := writer.Save(r.Filename, r.Data)
			if err != nil {
				failed++
				fmt.Fprintf(out, "✗ %s: %v\n", r.Filename, err)
				continue
			}
			fmt.Fprintf(out, "Relatório gerado: %s\n", path)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d exportação(ões) falharam", failed)
	}
	return nil
}

func newReportService(env *environment) (*services.ReportService, error) {
	loc, err := env.cfg.Processing.TimeLocation()
	if err != nil {
		return nil, err
	}
	metrics := infrastructure.NoopPipelineMetrics()
	pipeline := dataprocessing.NewPipeline(dataprocessing.Options{
		RequiredColumns: env.cfg.Processing.RequiredColumns,
		Dates: dataprocessing.DateOptions{
			DayFirst: env.cfg.Processing.DayFirst,
			Location: loc,
		},
	}, env.logger)
	loader := ingest.NewLoader(pipeline, nil, metrics, env.logger)
	manager := exporter.NewManager(env.cfg.Export, metrics, env.logger)
	return services.NewReportService(loader, manager, metrics, env.logger).WithClock(clock), nil
}

// jobs expands the date flags into one export per day, or a single
// export for an explicit period
func (o *reportOptions) jobs(values map[string][]string) ([]reportJob, error) {
	switch {
	case o.from != "":
		start, err := apiv1.ParseDate(o.from)
		if err != nil {
			return nil, fmt.Errorf("data inicial inválida: %w", err)
		}
		end, err := apiv1.ParseDate(o.to)
		if err != nil {
			return nil, fmt.Errorf("data final inválida: %w", err)
		}
		if start.After(end) {
			return nil, fmt.Errorf("período invertido: %s > %s", o.from, o.to)
		}
		return []reportJob{{
			label:   start.Format("02/01/2006") + " a " + end.Format("02/01/2006"),
			base:    o.reportBase + "_" + start.Format("02-01") + "_" + end.Format("02-01"),
			filters: domain.FilterSpec{Range: &domain.DateRange{Start: start, End: end}, Values: values},
		}}, nil
	case o.date != "":
		day, err := apiv1.ParseDate(o.date)
		if err != nil {
			return nil, fmt.Errorf("data inválida: %w", err)
		}
		return []reportJob{o.dayJob(day, values)}, nil
	}

	now := clock()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return []reportJob{
		o.dayJob(today.AddDate(0, 0, -1), values),
		o.dayJob(today, values),
		o.dayJob(today.AddDate(0, 0, 1), values),
	}, nil
}

func (o *reportOptions) dayJob(day time.Time, values map[string][]string) reportJob {
	d := day
	return reportJob{
		label:   day.Format("02/01/2006"),
		base:    o.reportBase + "_" + day.Format("02-01"),
		filters: domain.FilterSpec{Date: &d, Values: values},
	}
}

func parseFormats(names []string) ([]domain.ExportFormat, error) {
	var formats []domain.ExportFormat
	seen := make(map[domain.ExportFormat]bool)
	for _, name := range names {
		f, ok := domain.ParseExportFormat(name)
		if !ok {
			return nil, fmt.Errorf("formato não suportado: %q", name)
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// parseFilters turns repeated key=value flags into a values filter.
// Repeating a key selects several values of the same column.
func parseFilters(pairs []string) (map[string][]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := make(map[string][]string)
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("filtro inválido %q: use chave=valor", pair)
		}
		values[key] = append(values[key], value)
	}
	return values, nil
}
