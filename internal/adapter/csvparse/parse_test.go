package csvparse

import (
	"strings"
	"testing"

	"github.com/couchcryptid/bird-observations-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	utf8BOM    = "\ufeff"
	testHeader = "Chinese Name,English Name,Description,Location,Date,URL\n"
	testRemark = `"備註: 中文名稱若為 ""N/A""，則使用英文名稱作為備用。",,,,,` + "\n"
	testEgret  = `小白鷺,Little Egret,"Slender, white heron.","Mai Po Nature Reserve, Hong Kong",11日 6月 2025年,https://ebird.org/species/litegr` + "\n"
	testNA     = `N/A,Egret,,,,https://ebird.org/species/egret` + "\n"
)

func TestParse_ScraperOutput(t *testing.T) {
	records, err := ParseString(utf8BOM + testHeader + testRemark + testEgret + testNA)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, `備註: 中文名稱若為 "N/A"，則使用英文名稱作為備用。`, records[0][domain.ColumnChineseName])
	assert.Equal(t, domain.ObservationRecord{
		domain.ColumnChineseName: "小白鷺",
		domain.ColumnEnglishName: "Little Egret",
		domain.ColumnDescription: "Slender, white heron.",
		domain.ColumnLocation:    "Mai Po Nature Reserve, Hong Kong",
		domain.ColumnDate:        "11日 6月 2025年",
		domain.ColumnURL:         "https://ebird.org/species/litegr",
	}, records[1])
	assert.Equal(t, "N/A", records[2][domain.ColumnChineseName])
	assert.Empty(t, records[2][domain.ColumnDate])
}

func TestParse_StripsBOMFromFirstHeader(t *testing.T) {
	records, err := ParseString(utf8BOM + testHeader + testEgret)
	require.NoError(t, err)
	require.Len(t, records, 1)

	_, ok := records[0][domain.ColumnChineseName]
	assert.True(t, ok)
}

func TestParse_TrimsHeadersAndValues(t *testing.T) {
	input := ` "Chinese Name" , English Name ` + "\n" + `  小白鷺  ,  "Little Egret"  ` + "\n"

	records, err := ParseString(input)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "小白鷺", records[0][domain.ColumnChineseName])
	assert.Equal(t, "Little Egret", records[0][domain.ColumnEnglishName])
}

func TestParse_SkipsEmptyLines(t *testing.T) {
	records, err := ParseString(testHeader + "\n" + testEgret + "\n\n" + testNA + "\n")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestParse_ShortAndLongRows(t *testing.T) {
	input := "a,b,c\n1\n1,2,3,4\n"

	records, err := ParseString(input)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.ObservationRecord{"a": "1", "b": "", "c": ""}, records[0])
	assert.Equal(t, domain.ObservationRecord{"a": "1", "b": "2", "c": "3"}, records[1])
}

func TestParse_CustomHooks(t *testing.T) {
	opts := Options{
		TransformHeader: strings.ToLower,
		Transform: func(value, header string) string {
			return header + "=" + value
		},
	}

	records, err := Parse(strings.NewReader("A,B\nx,y\n"), opts)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.ObservationRecord{"a": "a=x", "b": "b=y"}, records[0])
}

func TestParse_HeaderOnly(t *testing.T) {
	records, err := ParseString(testHeader)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParse_Empty(t *testing.T) {
	_, err := ParseString("")
	require.ErrorIs(t, err, ErrNoHeader)
}

func TestParseTable_HeaderAndLines(t *testing.T) {
	input := utf8BOM + testHeader + testRemark + "\n" + "   \n" + testEgret + testNA

	table, err := ParseTable(strings.NewReader(input), Options{})
	require.NoError(t, err)

	assert.Equal(t, domain.Columns, table.Header)
	require.Len(t, table.Records, 3)
	assert.Equal(t, []int{2, 5, 6}, table.Lines)
	assert.Equal(t, "Little Egret", table.Records[1][domain.ColumnEnglishName])
}

func TestParseTable_HeaderOnly(t *testing.T) {
	table, err := ParseTable(strings.NewReader(testHeader), Options{})
	require.NoError(t, err)

	assert.Equal(t, domain.Columns, table.Header)
	assert.Empty(t, table.Records)
	assert.Empty(t, table.Lines)
}

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"quoted"`, "quoted"},
		{`  "padded"  `, "padded"},
		{`"leading`, "leading"},
		{`trailing"`, "trailing"},
		{`""double""`, `"double"`},
		{`in"side`, `in"side`},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimQuotes(tt.in))
		})
	}
}
