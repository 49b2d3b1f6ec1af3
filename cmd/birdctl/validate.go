package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"

	"github.com/couchcryptid/bird-observations-service/internal/adapter/csvparse"
	"github.com/couchcryptid/bird-observations-service/internal/domain"
	"github.com/spf13/cobra"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

var errValidationFailed = errors.New("validation failed")

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the CSV for missing columns, unparseable dates, and bad links",
		Long: `Loads the CSV and runs integrity checks on every record:

  - all six columns are present in the header
  - there is at least one sighting and each has an English name
  - every non-empty date matches "D日 M月 YYYY年"
  - every link is an absolute http(s) URL

Remark rows are counted but not checked. Exits non-zero when a check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := opts.loadSnapshot(cmd)
			if err != nil {
				return err
			}

			table, err := csvparse.ParseTable(strings.NewReader(snap.RawCSV), csvparse.Options{})
			if err != nil {
				return err
			}
			rows := sightings(table)

			phases := []*phase{
				validateColumns(table.Header),
				validateNames(rows),
				validateDates(rows),
				validateLinks(rows),
			}
			if !report(cmd.OutOrStdout(), phases, snap.Stats) {
				return errValidationFailed
			}
			return nil
		},
	}
}

func report(w io.Writer, phases []*phase, stats domain.MapStats) bool {
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-24s %s\n", p.name, status)
	}

	fmt.Fprintf(w, "\nRecords: %d, rows: %d, remark rows: %d\n", stats.Records, stats.Rows, stats.RemarksSkipped)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
	} else {
		fmt.Fprintln(w, "\nValidation FAILED.")
	}
	return allPassed
}

func validateColumns(header []string) *phase {
	p := &phase{name: "Header columns"}
	for _, col := range domain.Columns {
		if !slices.Contains(header, col) {
			p.errorf("missing column %q", col)
		}
	}
	return p
}

func validateNames(rows []sighting) *phase {
	p := &phase{name: "Species names"}
	if len(rows) == 0 {
		p.errorf("no observation rows")
	}
	for _, row := range rows {
		if row.rec[domain.ColumnEnglishName] == "" {
			p.errorf("line %d: empty %s", row.line, domain.ColumnEnglishName)
		}
	}
	return p
}

func validateDates(rows []sighting) *phase {
	p := &phase{name: "Observation dates"}
	for _, row := range rows {
		date := row.rec[domain.ColumnDate]
		if date == "" {
			continue
		}
		if _, ok := domain.ParseDate(date); !ok {
			p.errorf("line %d (%s): unparseable date %q", row.line, row.rec[domain.ColumnEnglishName], date)
		}
	}
	return p
}

func validateLinks(rows []sighting) *phase {
	p := &phase{name: "Links"}
	for _, row := range rows {
		link := row.rec[domain.ColumnURL]
		u, err := url.Parse(link)
		if link == "" || err != nil || !slices.Contains([]string{"http", "https"}, u.Scheme) || u.Host == "" {
			p.errorf("line %d (%s): invalid link %q", row.line, row.rec[domain.ColumnEnglishName], link)
		}
	}
	return p
}

// sighting is a non-remark record with its CSV source line.
type sighting struct {
	line int
	rec  domain.ObservationRecord
}

// sightings returns the non-remark records in CSV order.
func sightings(table *csvparse.Table) []sighting {
	out := make([]sighting, 0, len(table.Records))
	for i, rec := range table.Records {
		if !domain.IsRemark(rec) {
			out = append(out, sighting{line: table.Lines[i], rec: rec})
		}
	}
	return out
}
