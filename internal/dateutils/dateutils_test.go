package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		layout string
	}{
		{"iso", "2025-01-02", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), DateLayoutISO},
		{"swiss", "03.04.2025", time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), DateLayoutSwiss},
		{"revolut timestamp", "2025-01-02 08:07:09", time.Date(2025, 1, 2, 8, 7, 9, 0, time.UTC), DateLayoutFull},
		{"slash is day first", "03/04/2025", time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), DateLayoutSlash},
		{"padded whitespace", "  03.04.2025  ", time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), DateLayoutSwiss},
		{"short swiss", "3.4.2025", time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), "2.1.2006"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, layout, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
			assert.Equal(t, tt.layout, layout)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "yesterday", "32.13.2025"} {
		_, _, err := ParseDate(in)
		assert.Error(t, err, in)
	}
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2025-01-02", NormalizeDate("2025-01-02 08:07:09"))
	assert.Equal(t, "2025-04-03", NormalizeDate("03.04.2025"))
	assert.Equal(t, "not a date", NormalizeDate(" not a date "))
}

func TestMonthHelpers(t *testing.T) {
	d := time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02", MonthKey(d))
	assert.Equal(t, 1, StartOfMonth(d).Day())
	assert.Equal(t, 29, EndOfMonth(d).Day())

	m, err := ParseMonth(" 2025-03 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), m)
	assert.Equal(t, 31, EndOfMonth(m).Day())

	_, err = ParseMonth("2025-03-04")
	assert.Error(t, err)
}

func TestInRange(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.True(t, InRange(time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC), from, to))
	assert.False(t, InRange(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), from, to))
	assert.True(t, InRange(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{}, to))
	assert.True(t, InRange(time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC), from, time.Time{}))
}
