package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/trymzet/dlt/internal/config"
	"github.com/trymzet/dlt/pkg/dataset"
)

func newDatasetCmd() *cobra.Command {
	datasetCmd := &cobra.Command{
		Use:   "dataset",
		Short: "Inspect and read a destination dataset",
	}

	datasetCmd.AddCommand(newPeekCmd())
	datasetCmd.AddCommand(newSchemaCmd())
	datasetCmd.AddCommand(newQueryCmd())

	return datasetCmd
}

// openDataset builds the dataset for the active profile.
func openDataset(cfg *config.Config) (*dataset.Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Dataset == "" {
		return nil, fmt.Errorf("dataset is required (set --dataset or the dataset profile key)")
	}

	opts := []dataset.Option{
		dataset.WithSettings(cfg.SettingsFor(cfg.Destination)),
		dataset.WithLogger(logger),
	}
	if cfg.SchemaName != "" {
		opts = append(opts, dataset.WithSchemaName(cfg.SchemaName))
	}
	if cfg.Staging != nil && cfg.Staging.Destination != "" {
		opts = append(opts, dataset.WithStaging(cfg.Staging.Destination, cfg.Staging.Dataset, cfg.Staging.Settings))
	}
	return dataset.New(cfg.Destination, cfg.Dataset, opts...)
}

func newPeekCmd() *cobra.Command {
	var limit int

	peekCmd := &cobra.Command{
		Use:   "peek <table>",
		Short: "Show the first rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := openDataset(cfg)
			if err != nil {
				return err
			}

			rel, err := ds.Table(args[0]).Head(limit)
			if err != nil {
				return err
			}

			frame, err := rel.Frame(cmd.Context())
			if err != nil {
				return err
			}
			return frame.Render(cmd.OutOrStdout(), cfg.Output)
		},
	}

	peekCmd.Flags().IntVarP(&limit, "limit", "n", 5, "number of rows to show")
	return peekCmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [table]",
		Short: "Show the dataset's resolved schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := openDataset(cfg)
			if err != nil {
				return err
			}

			sch, err := ds.Schema(cmd.Context())
			if err != nil {
				return err
			}

			tableNames := sch.TableNames()
			if len(args) == 1 {
				tableNames = []string{sch.Naming().NormalizeTablesPath(args[0])}
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Schema: %s\n\n", sch.Name())
			for _, name := range tableNames {
				tbl, ok := sch.Table(name)
				if !ok {
					return fmt.Errorf("table %q not found in schema %q", name, sch.Name())
				}

				fmt.Fprintf(w, "Table: %s\n", tbl.Name)
				t := table.NewWriter()
				t.SetOutputMirror(w)
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"Column", "Type", "Nullable"})
				for _, col := range tbl.Columns() {
					t.AppendRow(table.Row{col.Name, col.DataType, col.Nullable})
				}
				t.Render()
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a raw SQL query against the dataset's destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := openDataset(cfg)
			if err != nil {
				return err
			}

			frame, err := ds.Query(args[0]).Frame(cmd.Context())
			if err != nil {
				return err
			}
			return frame.Render(cmd.OutOrStdout(), cfg.Output)
		},
	}
}
