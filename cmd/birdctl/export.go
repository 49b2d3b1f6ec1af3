package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/couchcryptid/bird-observations-service/internal/adapter/xlsx"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the display rows to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			snap, err := opts.loadSnapshot(cmd)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer func() {
				err = errors.Join(err, f.Close())
			}()

			if err := xlsx.Write(f, snap.Rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", len(snap.Rows), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "hk_birds.xlsx", "output workbook path")
	return cmd
}
