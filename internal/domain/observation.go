package domain

import "time"

// Recognized CSV column names.
const (
	ColumnChineseName = "Chinese Name"
	ColumnEnglishName = "English Name"
	ColumnDescription = "Description"
	ColumnLocation    = "Location"
	ColumnDate        = "Date"
	ColumnURL         = "URL"
)

// Columns lists the recognized columns in file order.
var Columns = []string{
	ColumnChineseName,
	ColumnEnglishName,
	ColumnDescription,
	ColumnLocation,
	ColumnDate,
	ColumnURL,
}

const (
	// NotAvailable is the scraper's sentinel for a value it could not read.
	NotAvailable = "N/A"

	// RemarkPrefix starts the Chinese Name cell of a footnote row.
	RemarkPrefix = "備註:"
)

// ObservationRecord is one parsed CSV row keyed by trimmed header name.
// Values are already trimmed and quote-stripped by the tokenizer.
type ObservationRecord map[string]string

// DisplayRow is the render-ready projection of an ObservationRecord.
type DisplayRow struct {
	ChineseName string `json:"chineseName"`
	EnglishName string `json:"englishName"`
	Description string `json:"description"`
	Location    string `json:"location"`
	DisplayDate string `json:"displayDate"`
	URL         string `json:"url"`
}

// MapStats counts what the row mapper dropped or could not normalize.
type MapStats struct {
	Records        int `json:"records"`
	Rows           int `json:"rows"`
	RemarksSkipped int `json:"remarks_skipped"`
	RawDates       int `json:"raw_dates"`
}

// QueryAudit describes one dispatched question. It never carries the API key.
type QueryAudit struct {
	ID          string        `json:"id"`
	Query       string        `json:"query"`
	Model       string        `json:"model"`
	Outcome     string        `json:"outcome"`
	StatusCode  int           `json:"status_code,omitempty"`
	AnswerChars int           `json:"answer_chars"`
	Duration    time.Duration `json:"duration_ns"`
	AskedAt     time.Time     `json:"asked_at"`
}
