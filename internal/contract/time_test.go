package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLookbackDuration(t *testing.T) {
	const day = 24 * time.Hour

	tests := []struct {
		name        string
		input       string
		expected    time.Duration
		expectError bool
	}{
		{"go duration", "720h", 720 * time.Hour, false},
		{"plural months", "3 months", 90 * day, false},
		{"singular year mixed case", "1 YeAr", 365 * day, false},
		{"weeks", "2 weeks", 14 * day, false},
		{"minutes", "15 minutes", 15 * time.Minute, false},
		{"zero go duration", "0s", 0, true},
		{"zero units", "0 days", 0, true},
		{"unsupported unit", "4 decades", 0, true},
		{"garbage", "soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLookbackDuration(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input       string
		expected    Period
		expectError bool
	}{
		{"1 year", Period{Years: 1}, false},
		{"6 months", Period{Months: 6}, false},
		{"2 weeks", Period{Days: 14}, false},
		{"10 days", Period{Days: 10}, false},
		{"3 hours", Period{}, true},
		{"0 months", Period{}, true},
		{"720h", Period{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.False(t, got.IsZero())
		})
	}
}

func TestPeriodAddTo(t *testing.T) {
	start := time.Date(2015, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2016, time.January, 31, 0, 0, 0, 0, time.UTC), Period{Years: 1}.AddTo(start))
	assert.Equal(t, time.Date(2015, time.February, 7, 0, 0, 0, 0, time.UTC), Period{Days: 7}.AddTo(start))
	assert.True(t, Period{}.IsZero())
}

func TestSnapshotRoundTrip(t *testing.T) {
	ts, err := ParseSnapshot("15Jan2020")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC), ts)
	assert.Equal(t, "15Jan2020", FormatSnapshot(ts))

	_, err = ParseSnapshot("2020-01-15")
	assert.Error(t, err)
}

func TestParseRawDate(t *testing.T) {
	ts, err := ParseRawDate(" 2020-01-31 ")
	require.NoError(t, err)
	assert.Equal(t, time.January, ts.Month())

	_, err = ParseRawDate("31Jan2020")
	assert.Error(t, err)
}

func TestIntervalLiteral(t *testing.T) {
	tests := []struct {
		input       string
		expected    string
		expectError bool
	}{
		{"1 year", "1 years", false},
		{"6 Months", "6 months", false},
		{"2 weeks", "2 weeks", false},
		{"720h", "2592000 seconds", false},
		{"-5h", "", true},
		{"1 year'; drop table x; --", "", true},
		{"0 days", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := IntervalLiteral(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
