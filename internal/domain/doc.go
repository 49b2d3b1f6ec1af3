// Package domain models eBird observation lists for Hong Kong as published in
// the hk_birds.csv file.
//
// # Data Source
//
// The CSV is produced by a scraper that reads the eBird regional bird list
// (https://ebird.org/region/HK/bird-list) with the site language switched to
// Traditional Chinese, follows each species link for its identification text,
// and writes one row per species. The file is written with a UTF-8 byte-order
// mark and a single header row.
//
// # Columns
//
//	Chinese Name   species common name in Traditional Chinese, or "N/A"
//	English Name   species name as shown under the Chinese name
//	Description    identification text from the species page
//	Location       "<hotspot>, <parent region>" of the latest sighting
//	Date           localized date of the latest sighting
//	URL            absolute eBird species URL
//
// # Conventions
//
// Sentinel values:
//
//	"N/A" marks a value the scraper could not read. A Chinese name of "N/A"
//	is replaced by the English name for display, see [MapRows].
//
// Remark rows:
//
//	The first data row is a footnote, not a sighting. Its Chinese Name cell
//	starts with the literal prefix "備註:" (e.g. `備註: 中文名稱若為 "N/A"，則使用英文名稱作為備用。`)
//	and every other cell is empty. Such rows are dropped from display.
//
// Date format:
//
//	"<day>日 <month>月 <year>年", e.g. "11日 6月 2025年" = June 11, 2025.
//	Day and month are one or two digits, the year is four digits, and the
//	separating whitespace is optional. Dates that do not match, or that name
//	a day the calendar does not have, are displayed as written. See [FormatDate].
//
// # Questions
//
// Free-text questions are answered by an OpenAI-compatible chat completion
// API. The prompt embeds the raw CSV verbatim, see [BuildPrompt].
package domain
