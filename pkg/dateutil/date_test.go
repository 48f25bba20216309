package dateutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseAndString(t *testing.T) {
	d, err := Parse("2025-07-14")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.July, d.Month())
	assert.Equal(t, 14, d.Day())
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, "2025-07-14", d.String())

	_, err = Parse("14/07/2025")
	require.Error(t, err)
}

func TestFromTimeIgnoresZone(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	// 00:30 local in Jakarta is still the previous day in UTC.
	local := time.Date(2025, 8, 17, 0, 30, 0, 0, jakarta)
	assert.Equal(t, "2025-08-17", FromTime(local).String())
}

func TestISOWeek(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantYear int
		wantWeek int
	}{
		{name: "mid year", input: "2025-07-14", wantYear: 2025, wantWeek: 29},
		{name: "december belongs to next iso year", input: "2025-12-30", wantYear: 2026, wantWeek: 1},
		{name: "january shares that week", input: "2026-01-02", wantYear: 2026, wantWeek: 1},
		{name: "sunday closes the week", input: "2026-01-04", wantYear: 2026, wantWeek: 1},
		{name: "next monday", input: "2026-01-05", wantYear: 2026, wantWeek: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, week := MustParse(tt.input).ISOWeek()
			assert.Equal(t, tt.wantYear, year)
			assert.Equal(t, tt.wantWeek, week)
		})
	}
}

func TestAddDaysAndCompare(t *testing.T) {
	start := MustParse("2025-12-30")
	next := start.AddDays(3)
	assert.Equal(t, "2026-01-02", next.String())
	assert.True(t, start.Before(next))
	assert.True(t, next.After(start))
	assert.Equal(t, -1, start.Compare(next))
	assert.Equal(t, 0, next.Compare(MustParse("2026-01-02")))
	assert.Equal(t, 3, start.DaysUntil(next))
	assert.True(t, MustParse("2025-12-31").Between(start, next))
	assert.True(t, start.Between(start, next))
	assert.False(t, next.AddDays(1).Between(start, next))
}

func TestMonthBounds(t *testing.T) {
	d := MustParse("2026-02-17")
	assert.Equal(t, "2026-02-01", d.FirstOfMonth().String())
	assert.Equal(t, "2026-02-28", d.LastOfMonth().String())
}

func TestRange(t *testing.T) {
	var visited []string
	Range(MustParse("2025-12-30"), MustParse("2026-01-02"), func(d Date) bool {
		visited = append(visited, d.String())
		return true
	})
	assert.Equal(t, []string{"2025-12-30", "2025-12-31", "2026-01-01", "2026-01-02"}, visited)

	count := 0
	Range(MustParse("2025-01-01"), MustParse("2025-12-31"), func(Date) bool {
		count++
		return count < 5
	})
	assert.Equal(t, 5, count)
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Date Date  `json:"date"`
		Opt  *Date `json:"opt"`
	}
	raw, err := json.Marshal(payload{Date: MustParse("2025-09-05")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-09-05","opt":null}`, string(raw))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2026-06-20"}`), &decoded))
	assert.Equal(t, "2026-06-20", decoded.Date.String())

	require.Error(t, json.Unmarshal([]byte(`{"date":20260620}`), &decoded))
}

func TestYAMLDecode(t *testing.T) {
	var decoded struct {
		Start Date `yaml:"start"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("start: \"2025-07-14\"\n"), &decoded))
	assert.Equal(t, "2025-07-14", decoded.Start.String())
}

func TestScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-08-17", d.String())

	require.NoError(t, d.Scan([]byte("2025-09-05")))
	assert.Equal(t, "2025-09-05", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	require.Error(t, d.Scan(42))
}
