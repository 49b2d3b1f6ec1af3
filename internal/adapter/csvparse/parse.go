// Package csvparse turns raw CSV text into observation records keyed by header.
package csvparse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/bird-observations-service/internal/domain"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("csv has no header row")

// Options holds the header and value hooks applied to every cell.
// Nil hooks default to [TrimQuotes].
type Options struct {
	TransformHeader func(header string) string
	Transform       func(value, header string) string
}

// TrimQuotes trims surrounding whitespace and then one leading and one
// trailing double quote.
func TrimQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}

func (o Options) withDefaults() Options {
	if o.TransformHeader == nil {
		o.TransformHeader = TrimQuotes
	}
	if o.Transform == nil {
		o.Transform = func(value, _ string) string { return TrimQuotes(value) }
	}
	return o
}

// Table is a parsed CSV: the transformed header and one record per data row,
// with Lines[i] the 1-based source line on which Records[i] starts.
type Table struct {
	Header  []string
	Records []domain.ObservationRecord
	Lines   []int
}

// Parse reads a header row followed by data rows. A leading UTF-8 byte-order
// mark is dropped. Blank lines are skipped, short rows are padded with empty
// values, and fields beyond the header are ignored.
func Parse(r io.Reader, opts Options) ([]domain.ObservationRecord, error) {
	t, err := ParseTable(r, opts)
	if err != nil {
		return nil, err
	}
	return t.Records, nil
}

// ParseTable is [Parse] keeping the header and record line numbers.
func ParseTable(r io.Reader, opts Options) (*Table, error) {
	opts = opts.withDefaults()

	// BOMOverride strips a UTF-8 BOM and otherwise passes bytes through.
	dec := transform.NewReader(r, unicode.BOMOverride(transform.Nop))

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rawHeader, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	t := &Table{Header: make([]string, len(rawHeader))}
	for i, h := range rawHeader {
		t.Header[i] = opts.TransformHeader(h)
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if isBlank(row) {
			continue
		}

		rec := make(domain.ObservationRecord, len(t.Header))
		for i, h := range t.Header {
			var v string
			if i < len(row) {
				v = row[i]
			}
			rec[h] = opts.Transform(v, h)
		}
		line, _ := cr.FieldPos(0)
		t.Records = append(t.Records, rec)
		t.Lines = append(t.Lines, line)
	}

	return t, nil
}

// ParseString is a convenience wrapper around [Parse] with default hooks.
func ParseString(text string) ([]domain.ObservationRecord, error) {
	return Parse(strings.NewReader(text), Options{})
}

// isBlank reports whether a row consists of a single whitespace-only field.
// encoding/csv already drops truly empty lines.
func isBlank(row []string) bool {
	return len(row) == 1 && strings.TrimSpace(row[0]) == ""
}
