package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/incsim/datarecording"
	"github.com/sarchlab/incsim/tracing"
)

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <file.sqlite3>",
		Short: "Print the register trace recorded by `run --trace-db`.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")

			return printTrace(cmd, args[0], limit, offset)
		},
	}

	cmd.Flags().Int("limit", 20, "number of rows to print, 0 prints all")
	cmd.Flags().Int("offset", 0, "number of rows to skip")

	return cmd
}

func printTrace(cmd *cobra.Command, file string, limit, offset int) error {
	reader, err := datarecording.NewReader(file)
	if err != nil {
		return err
	}
	defer reader.Close()

	reader.MapTable(tracing.RegisterTableName, tracing.RegisterSample{})

	rows, total, err := reader.Query(cmd.Context(), tracing.RegisterTableName,
		datarecording.QueryParams{
			OrderBy: "Retired",
			Limit:   limit,
			Offset:  offset,
		})
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "RETIRED\tTIME\tACC\tCOUNTER\tBYTE")

	for _, r := range rows {
		s := r.(*tracing.RegisterSample)
		fmt.Fprintf(w, "%d\t%.9g\t%d\t%d\t%d\n",
			s.Retired, s.Time, s.Accumulator, s.Counter, s.ByteCounter)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d samples\n", len(rows), total)

	return nil
}
