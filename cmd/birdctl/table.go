package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTableCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the display rows",
		Long: `Prints one line per observation with the Chinese name (falling back to the
English name), English name, location, formatted date, and link. Remark rows
are left out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := opts.loadSnapshot(cmd)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap.Rows)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CHINESE NAME\tENGLISH NAME\tLOCATION\tDATE\tURL")
			for _, row := range snap.Rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					row.ChineseName, row.EnglishName, row.Location, row.DisplayDate, row.URL)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%d rows (%d remark rows skipped, %d dates shown as written)\n",
				snap.Stats.Rows, snap.Stats.RemarksSkipped, snap.Stats.RawDates)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON")
	return cmd
}
