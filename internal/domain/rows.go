package domain

import (
	"iter"
	"strings"
)

// IsRemark reports whether the record is a footnote row rather than a sighting.
func IsRemark(rec ObservationRecord) bool {
	return strings.HasPrefix(rec[ColumnChineseName], RemarkPrefix)
}

// ToDisplayRow projects a record onto its display form. A Chinese name of
// "N/A" falls back to the English name. Description, Location and URL pass
// through verbatim.
func ToDisplayRow(rec ObservationRecord) DisplayRow {
	chineseName := rec[ColumnChineseName]
	if chineseName == NotAvailable {
		chineseName = rec[ColumnEnglishName]
	}

	return DisplayRow{
		ChineseName: chineseName,
		EnglishName: rec[ColumnEnglishName],
		Description: rec[ColumnDescription],
		Location:    rec[ColumnLocation],
		DisplayDate: FormatDate(rec[ColumnDate]),
		URL:         rec[ColumnURL],
	}
}

// Rows yields one DisplayRow per non-remark record, in input order.
func Rows(records []ObservationRecord) iter.Seq[DisplayRow] {
	return func(yield func(DisplayRow) bool) {
		for _, rec := range records {
			if IsRemark(rec) {
				continue
			}
			if !yield(ToDisplayRow(rec)) {
				return
			}
		}
	}
}

// MapRows is the eager form of [Rows].
func MapRows(records []ObservationRecord) []DisplayRow {
	rows, _ := MapRowsWithStats(records)
	return rows
}

// MapRowsWithStats maps records like [MapRows] and counts skipped remark rows
// and non-empty dates that could not be parsed.
func MapRowsWithStats(records []ObservationRecord) ([]DisplayRow, MapStats) {
	stats := MapStats{Records: len(records)}
	rows := make([]DisplayRow, 0, len(records))

	for _, rec := range records {
		if IsRemark(rec) {
			stats.RemarksSkipped++
			continue
		}
		if date := rec[ColumnDate]; date != "" {
			if _, ok := ParseDate(date); !ok {
				stats.RawDates++
			}
		}
		rows = append(rows, ToDisplayRow(rec))
	}

	stats.Rows = len(rows)
	return rows, stats
}
