package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"psicocitas-web/internal/catalog"
	"psicocitas-web/internal/psiapi"
	"psicocitas-web/internal/report"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	PsicologoID int64
	Output      string
	Token       string
	Dias        int
	Anios       []int
	Meses       []int
	Columns     map[report.Column]*[]string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts, Columns: make(map[report.Column]*[]string)}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a professional's report to a spreadsheet",
		Long: `Fetch the appointment history of a professional, apply the same filters
as the report page and write it as an .xlsx file.

Example:
  psicocitas export --psicologo 12 --anio 2025 --mes 3 --estado atendida
  psicocitas export --psicologo 12 --dias 30 --out marzo.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.PsicologoID, "psicologo", 0, "professional id (required)")
	_ = cmd.MarkFlagRequired("psicologo")
	cmd.Flags().StringVarP(&opts.Output, "out", "o", "reporte.xlsx", "output file")
	cmd.Flags().StringVar(&opts.Token, "token", os.Getenv("PSI_API_TOKEN"), "backend token sent as Bearer")
	cmd.Flags().IntVar(&opts.Dias, "dias", 0, "only the last N days")
	cmd.Flags().IntSliceVar(&opts.Anios, "anio", nil, "years to include")
	cmd.Flags().IntSliceVar(&opts.Meses, "mes", nil, "months to include (1-12)")
	for _, col := range report.Columns {
		opts.Columns[col] = cmd.Flags().StringSlice(string(col), nil, "filter by "+string(col))
	}

	return cmd
}

// query renders the flags as report query parameters.
func (o *ExportOptions) query() url.Values {
	q := url.Values{}
	for col, values := range o.Columns {
		for _, v := range *values {
			q.Add(string(col), v)
		}
	}
	if o.Dias > 0 {
		q.Set("dias", strconv.Itoa(o.Dias))
	}
	for _, y := range o.Anios {
		q.Add("anio", strconv.Itoa(y))
	}
	for _, m := range o.Meses {
		q.Add("mes", strconv.Itoa(m))
	}
	return q
}

func runExport(ctx context.Context, opts *ExportOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	filters, err := report.ParseQuery(opts.query())
	if err != nil {
		return err
	}

	api := psiapi.NewClient(cfg.API)
	svc := report.NewService(api, catalog.Default(), cfg.Location())
	result, err := svc.Build(psiapi.WithToken(ctx, opts.Token), opts.PsicologoID, filters)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	f, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.Output, err)
	}
	if err := report.Export(f, result.Rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", opts.Output, err)
	}

	slog.Debug("report exported", "psicologo", opts.PsicologoID, "rows", result.Total)
	fmt.Fprintf(cmd.OutOrStdout(), "%d citas exportadas a %s\n", result.Total, opts.Output)
	return nil
}
