package hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlwaysOpen(t *testing.T) {
	for _, raw := range []string{"24/7", "Open 24 Hours", "mo-su 24/7"} {
		week := Parse(raw)
		for day, d := range week {
			assert.True(t, d.Is24h, "raw=%q day=%d", raw, day)
			assert.False(t, d.IsClosed)
			assert.Equal(t, "00:00", d.OpenTime)
			assert.Equal(t, "23:59", d.CloseTime)
		}
	}
}

func TestParseAlwaysClosed(t *testing.T) {
	for _, raw := range []string{"", "off", "OFF", "closed", "Closed"} {
		week := Parse(raw)
		for day, d := range week {
			assert.True(t, d.IsClosed, "raw=%q day=%d", raw, day)
			assert.Empty(t, d.OpenTime)
			assert.Empty(t, d.CloseTime)
		}
	}
}

func TestParseMixedWeek(t *testing.T) {
	week := Parse("Mo-Fr 08:00-20:00; Sa 09:00-18:00; Su off")

	for day := 0; day <= 4; day++ {
		d := week[day]
		require.False(t, d.IsClosed, "day=%d", day)
		assert.Equal(t, "08:00", d.OpenTime)
		assert.Equal(t, "20:00", d.CloseTime)
	}

	sat := week[5]
	require.False(t, sat.IsClosed)
	assert.Equal(t, "09:00", sat.OpenTime)
	assert.Equal(t, "18:00", sat.CloseTime)

	assert.True(t, week[6].IsClosed)
}

func TestParseFirstClauseWins(t *testing.T) {
	// Monday is covered twice; clause order decides.
	week := Parse("Mo 07:00-12:00; Mo-Fr 08:00-20:00")
	assert.Equal(t, "07:00", week[0].OpenTime)
	assert.Equal(t, "12:00", week[0].CloseTime)
	// Tuesday only matches the second clause.
	assert.Equal(t, "08:00", week[1].OpenTime)
}

func TestParseSingleDigitHoursPadded(t *testing.T) {
	week := Parse("Mo-Su 8:00-21:30")
	assert.Equal(t, "08:00", week[0].OpenTime)
	assert.Equal(t, "21:30", week[0].CloseTime)
}

func TestParseMalformedClauseDegradesToClosed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing time pattern", "Mo-Fr open late"},
		{"unknown day tokens", "xx-yy 08:00-20:00"},
		{"garbage", "!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			week := Parse(tt.raw)
			for day, d := range week {
				assert.True(t, d.IsClosed, "day=%d", day)
			}
		})
	}
}

func TestParseExactlySevenDays(t *testing.T) {
	week := Parse("Mo-We 08:00-20:00")
	seen := map[int]bool{}
	for _, d := range week {
		assert.False(t, seen[d.Day], "duplicate day %d", d.Day)
		seen[d.Day] = true
	}
	assert.Len(t, seen, 7)
}

// 2024-01-08 is a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2024, 1, 8, hour, min, 0, 0, time.UTC)
}

func TestStatusWithinWindow(t *testing.T) {
	week := Parse("Mo-Fr 08:00-20:00")

	tests := []struct {
		name     string
		now      time.Time
		wantOpen bool
	}{
		{"before opening", monday(7, 59), false},
		{"opening boundary is inclusive", monday(8, 0), true},
		{"midday", monday(13, 30), true},
		{"closing boundary is inclusive", monday(20, 0), true},
		{"after closing", monday(20, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Status(week, tt.now)
			assert.Equal(t, tt.wantOpen, st.IsOpen)
			assert.Equal(t, "20:00", st.NextClose)
			if !tt.wantOpen {
				assert.Equal(t, "08:00", st.NextOpen)
			} else {
				assert.Empty(t, st.NextOpen)
			}
		})
	}
}

func TestStatus24h(t *testing.T) {
	week := Parse("24/7")
	st := Status(week, monday(3, 0))
	assert.True(t, st.IsOpen)
	assert.Equal(t, "23:59", st.NextClose)
}

func TestStatusClosedTodayFindsNextOpenDay(t *testing.T) {
	// Closed Monday, open Wednesday.
	week := Parse("We-Fr 09:00-17:00")
	st := Status(week, monday(10, 0))

	assert.False(t, st.IsOpen)
	assert.Equal(t, "Wednesday 09:00", st.NextOpen)
	assert.Equal(t, "17:00", st.NextClose)
}

func TestStatusClosedAllWeek(t *testing.T) {
	st := Status(Parse("off"), monday(10, 0))
	assert.False(t, st.IsOpen)
	assert.Empty(t, st.NextOpen)
	assert.Empty(t, st.NextClose)
}

func TestStatusSundayNormalization(t *testing.T) {
	// 2024-01-07 is a Sunday; Go says Weekday()==0, the schedule says day 6.
	sunday := time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC)
	require.Equal(t, time.Sunday, sunday.Weekday())

	week := Parse("Su 09:00-13:00")
	st := Status(week, sunday)
	assert.True(t, st.IsOpen)
	assert.Equal(t, "13:00", st.NextClose)
}

func TestClosingTimeToday(t *testing.T) {
	week := Parse("Mo-Fr 08:00-20:00; Sa 09:00-18:00; Su off")

	closeTime, ok := ClosingTimeToday(week, monday(10, 0))
	require.True(t, ok)
	assert.Equal(t, "20:00", closeTime)

	sunday := time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC)
	_, ok = ClosingTimeToday(week, sunday)
	assert.False(t, ok)
}
