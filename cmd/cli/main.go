package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"hrdash/adapters/excel"
	"hrdash/internal"
	"hrdash/internal/catalog"
	"hrdash/internal/config"
	"hrdash/internal/container"
	"hrdash/internal/filter"
	"hrdash/internal/testkit"
	"hrdash/internal/views"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dataFlags override the environment's data settings
type dataFlags struct {
	envFile string
	file    string
	format  string
	sheet   string
	catalog string
	rows    int
	seed    int64
	filters []string
}

func newRootCmd() *cobra.Command {
	flags := &dataFlags{}
	rootCmd := &cobra.Command{
		Use:           "hrdash-cli",
		Short:         "Query the employee attrition dashboard from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		// same .env handling as the server; a missing default file is fine
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			err := godotenv.Load(flags.envFile)
			if err != nil && errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("env-file") {
				return nil
			}
			return err
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "Environment file loaded before configuration")
	pf.StringVar(&flags.file, "file", "", "Data file (CSV, XLSX or JSON); defaults to DATA_FILE, then synthetic data")
	pf.StringVar(&flags.format, "format", "", "Data format: auto|csv|xlsx|json")
	pf.StringVar(&flags.sheet, "sheet", "", "XLSX sheet name (default Sheet1)")
	pf.StringVar(&flags.catalog, "catalog", "", "Catalog YAML replacing the built-in dashboard")
	pf.IntVar(&flags.rows, "synthetic-rows", 0, "Synthetic rows when no data file is given")
	pf.Int64Var(&flags.seed, "synthetic-seed", 0, "Synthetic data seed")
	pf.StringArrayVar(&flags.filters, "filter", nil, "Filter as Column=a,b (repeatable); Column= selects nothing")

	rootCmd.AddCommand(
		newOptionsCmd(flags),
		newColumnsCmd(flags),
		newViewCmd(flags),
		newTabCmd(flags),
		newCatalogCmd(flags),
		newGenerateCmd(),
	)
	return rootCmd
}

// open builds and initializes a container from the environment plus flags
func (f *dataFlags) open(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if f.file != "" {
		cfg.Data.File = f.file
		cfg.Data.SQLURL = ""
	}
	if f.format != "" {
		cfg.Data.Format = strings.ToLower(f.format)
	}
	if f.sheet != "" {
		cfg.Data.Sheet = f.sheet
	}
	if f.catalog != "" {
		cfg.Catalog.File = f.catalog
	}
	if f.rows > 0 {
		cfg.Data.SyntheticRows = f.rows
	}
	if f.seed != 0 {
		cfg.Data.SyntheticSeed = f.seed
	}
	cfg.Data.Watch = false

	c, err := container.New(cfg, internal.NewDefaultLogger())
	if err != nil {
		return nil, err
	}
	if err := c.Init(ctx); err != nil {
		c.Shutdown(ctx)
		return nil, err
	}
	return c, nil
}

func (f *dataFlags) spec() (filter.Spec, error) {
	return parseFilters(f.filters)
}

// parseFilters reads Column=a,b arguments. Repeating a column adds labels.
func parseFilters(args []string) (filter.Spec, error) {
	if len(args) == 0 {
		return nil, nil
	}
	spec := make(filter.Spec, len(args))
	for _, arg := range args {
		col, list, ok := strings.Cut(arg, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid --filter %q, want Column=a,b", arg)
		}
		labels := spec[col]
		if labels == nil {
			labels = []string{}
		}
		for _, l := range strings.Split(list, ",") {
			if l = strings.TrimSpace(l); l != "" {
				labels = append(labels, l)
			}
		}
		spec[col] = labels
	}
	return spec, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newOptionsCmd(flags *dataFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the filter columns and their values",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			options, err := c.Dashboard.Options(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), options)
		},
	}
}

func newColumnsCmd(flags *dataFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "Profile every column of the filtered data",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := flags.spec()
			if err != nil {
				return err
			}
			c, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			columns, err := c.Dashboard.Columns(cmd.Context(), spec)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), columns)
		},
	}
}

func newViewCmd(flags *dataFlags) *cobra.Command {
	var req views.Request
	var kind string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Build one view over the filtered data",
		Long: `Build a count, histogram or summary view.

Example: hrdash-cli view --metric Age --group Attrition --kind histogram --bins 20 --filter Department=Sales`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Kind = views.Kind(strings.ToLower(kind))
			spec, err := flags.spec()
			if err != nil {
				return err
			}
			c, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			res, err := c.Dashboard.View(cmd.Context(), spec, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&req.Metric, "metric", "", "Column to aggregate")
	cmd.Flags().StringVar(&req.Group, "group", "", "Column to split by")
	cmd.Flags().StringVar(&kind, "kind", string(views.KindCount), "View kind: count|histogram|summary")
	cmd.Flags().IntVar(&req.Bins, "bins", 0, "Histogram bins (0 uses the default)")
	cmd.Flags().BoolVar(&req.IncludePoints, "points", false, "Include raw values in summaries")
	_ = cmd.MarkFlagRequired("metric")
	return cmd
}

func newTabCmd(flags *dataFlags) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "tab",
		Short: "Render one catalog tab, or every tab when --tab is omitted",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := flags.spec()
			if err != nil {
				return err
			}
			c, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			if key == "" {
				tabs, err := c.Dashboard.RenderAll(cmd.Context(), spec)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), tabs)
			}
			tab, err := c.Dashboard.RenderTab(cmd.Context(), spec, key)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), tab)
		},
	}

	cmd.Flags().StringVar(&key, "tab", "", "Tab key (overview, performance, compensation, tenure)")
	return cmd
}

func newCatalogCmd(flags *dataFlags) *cobra.Command {
	var validate bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the dashboard catalog as YAML",
		Long: `Print the active catalog (the built-in one, or --catalog) as YAML.
The output is a starting point for a custom CATALOG_FILE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if validate {
				c, err := flags.open(cmd.Context())
				if err != nil {
					return err
				}
				defer c.Shutdown(cmd.Context())
				return writeCatalog(cmd.OutOrStdout(), c.Catalog)
			}

			cat := catalog.Default()
			if flags.catalog != "" {
				loaded, err := catalog.Load(flags.catalog)
				if err != nil {
					return err
				}
				cat = loaded
			}
			return writeCatalog(cmd.OutOrStdout(), cat)
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "Load the data and check the catalog against it first")
	return cmd
}

func writeCatalog(w io.Writer, cat *catalog.Catalog) error {
	data, err := cat.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func newGenerateCmd() *cobra.Command {
	cfg := testkit.DefaultEmployeeConfig()
	var sheet string

	cmd := &cobra.Command{
		Use:   "generate [output-file]",
		Short: "Write a synthetic employee table as CSV or XLSX",
		Long: `Generate a synthetic employee attrition table with the standard 35 columns.

Example: hrdash-cli generate data/EA.csv --rows 1470 --seed 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := testkit.NewEmployeeGenerator(cfg).Generate()
			if err != nil {
				return err
			}
			out := excel.DefaultExcelConfig(args[0])
			out.Sheet = sheet
			if err := excel.WriteTable(out, table); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d employees to %s\n", table.Len(), args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.Rows, "rows", cfg.Rows, "Number of employees")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
	cmd.Flags().Float64Var(&cfg.AttritionBase, "attrition", cfg.AttritionBase, "Baseline attrition probability")
	cmd.Flags().Float64Var(&cfg.MissingRate, "missing-rate", cfg.MissingRate, "Probability that a cell is empty")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name for XLSX output")
	return cmd
}
