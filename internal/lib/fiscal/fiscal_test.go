package fiscal

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketFor(t *testing.T) {
	tests := []struct {
		name          string
		date          time.Time
		wantStartYear int
		wantEndYear   int
		wantLetter    string
	}{
		{
			name:          "april first opens new fiscal year",
			date:          time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
			wantStartYear: 2025,
			wantEndYear:   2026,
			wantLetter:    "S",
		},
		{
			name:          "march 31 belongs to previous fiscal year",
			date:          time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC),
			wantStartYear: 2024,
			wantEndYear:   2025,
			wantLetter:    "B",
		},
		{
			name:          "december stays in S half",
			date:          time.Date(2025, time.December, 31, 12, 0, 0, 0, time.UTC),
			wantStartYear: 2025,
			wantEndYear:   2026,
			wantLetter:    "S",
		},
		{
			name:          "january switches to B half of same fiscal year",
			date:          time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantStartYear: 2025,
			wantEndYear:   2026,
			wantLetter:    "B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BucketFor("VV", tt.date)
			assert.Equal(t, tt.wantStartYear, got.StartYear)
			assert.Equal(t, tt.wantEndYear, got.EndYear)
			assert.Equal(t, tt.wantLetter, got.Letter)
			assert.Equal(t, "VV", got.Prefix)
		})
	}
}

func TestBucket_Format(t *testing.T) {
	b := Bucket{Prefix: "VV", StartYear: 2025, EndYear: 2026, Letter: "S"}

	assert.Equal(t, "VV/25-26/S01", b.Format(1))
	assert.Equal(t, "VV/25-26/S09", b.Format(9))
	assert.Equal(t, "VV/25-26/S42", b.Format(42))
	// после двух знаков номер растёт без усечения
	assert.Equal(t, "VV/25-26/S100", b.Format(100))
}

func TestBucket_Next(t *testing.T) {
	b := Bucket{Prefix: "VV", StartYear: 2025, EndYear: 2026, Letter: "S"}

	tests := []struct {
		name string
		last string
		want string
	}{
		{name: "empty series starts at one", last: "", want: "VV/25-26/S01"},
		{name: "increments last number", last: "VV/25-26/S07", want: "VV/25-26/S08"},
		{name: "crosses two digit boundary", last: "VV/25-26/S99", want: "VV/25-26/S100"},
		{name: "keeps counting past three digits", last: "VV/25-26/S100", want: "VV/25-26/S101"},
		{name: "unrecognized format restarts sequence", last: "INV-2025-001-X", want: "VV/25-26/S01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Next(tt.last))
		})
	}
}

func TestSeq(t *testing.T) {
	seq, ok := Seq("VV/25-26/S07")
	require.True(t, ok)
	assert.Equal(t, 7, seq)

	seq, ok = Seq("VV/24-25/B123")
	require.True(t, ok)
	assert.Equal(t, 123, seq)

	_, ok = Seq("")
	assert.False(t, ok)

	_, ok = Seq("manual-invoice")
	assert.False(t, ok)
}

func TestBucket_SeriesPattern(t *testing.T) {
	b := Bucket{Prefix: "VV", StartYear: 2025, EndYear: 2026, Letter: "S"}
	re := regexp.MustCompile(b.SeriesPattern())

	assert.True(t, re.MatchString("VV/25-26/S01"))
	assert.True(t, re.MatchString("VV/25-26/S100"))
	// чужие серии и ручные номера не попадают под шаблон
	assert.False(t, re.MatchString("VV/24-25/S01"))
	assert.False(t, re.MatchString("VV/25-26/B01"))
	assert.False(t, re.MatchString("INV-2025-001"))
	assert.False(t, re.MatchString("VV/25-26/S01-void"))
}

func TestBucket_SequenceIsMonotonic(t *testing.T) {
	b := Bucket{Prefix: "VV", StartYear: 2025, EndYear: 2026, Letter: "S"}

	last := ""
	prevSeq := 0
	for range 120 {
		last = b.Next(last)
		seq, ok := Seq(last)
		require.True(t, ok, "generated invoice %q must be parseable", last)
		require.Equal(t, prevSeq+1, seq)
		prevSeq = seq
	}
}
