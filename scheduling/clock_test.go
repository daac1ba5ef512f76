package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"09:00", 9 * Hour, false},
		{"09:00:00", 9 * Hour, false},
		{"23:59:59", 23*Hour + 59*Minute + 59, false},
		{"00:00", 0, false},
		{"09:00:00.000000", 9 * Hour, false},
		{"14:30:15.5", 14*Hour + 30*Minute + 15, false},
		{"24:00", EndOfDay, false},
		{"24:00:00", EndOfDay, false},
		{"24:00:00.000000", EndOfDay, false},
		{"24:00:00.000001", 0, true},
		{"24:01", 0, true},
		{"24:00:01", 0, true},
		{"25:00", 0, true},
		{"09:00:00.", 0, true},
		{"09:00:00.1234567", 0, true},
		{"09:00:00.12a", 0, true},
		{"09:00.5", 0, true},
		{"+9:00", 0, true},
		{"9:00", 0, true},
		{"09:60", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockFormats(t *testing.T) {
	assert.Equal(t, "09:30:00", MustParseClock("09:30").String())
	assert.Equal(t, "09:30 AM", MustParseClock("09:30").Format12())
	assert.Equal(t, "12:00 PM", MustParseClock("12:00").Format12())
	assert.Equal(t, "12:15 AM", MustParseClock("00:15").Format12())
	assert.Equal(t, "05:45 PM", MustParseClock("17:45").Format12())
	assert.Equal(t, MustParseClock("10:30"), MustParseClock("09:00").AddMinutes(90))
	assert.Equal(t, "24:00:00", EndOfDay.String())
	assert.Equal(t, "09:00:00", MustParseClock("09:00:00.000000").String())
}

func TestIntervalOverlaps(t *testing.T) {
	iv := func(a, b string) Interval { return Interval{MustParseClock(a), MustParseClock(b)} }

	assert.True(t, iv("09:00", "10:00").Overlaps(iv("09:30", "10:30")))
	assert.True(t, iv("09:00", "12:00").Overlaps(iv("10:00", "11:00")))
	assert.False(t, iv("09:00", "10:00").Overlaps(iv("10:00", "11:00")), "touching at end")
	assert.False(t, iv("10:00", "11:00").Overlaps(iv("09:00", "10:00")), "touching at start")
	assert.False(t, iv("09:00", "10:00").Overlaps(iv("11:00", "12:00")))
	assert.Equal(t, 60, iv("09:00", "10:00").Minutes())
	assert.False(t, iv("10:00", "10:00").Valid())
}
