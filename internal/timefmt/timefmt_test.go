package timefmt

import (
	"testing"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/models"
)

func TestDisplayHour(t *testing.T) {
	tests := []struct {
		hour   uint8
		format models.TimeFormat
		want   uint8
	}{
		{0, models.TimeH12, 12},
		{1, models.TimeH12, 1},
		{11, models.TimeH12, 11},
		{12, models.TimeH12, 12},
		{13, models.TimeH12, 1},
		{23, models.TimeH12, 11},
		{0, models.TimeH24, 0},
		{23, models.TimeH24, 23},
	}
	for _, tt := range tests {
		if got := DisplayHour(tt.hour, tt.format); got != tt.want {
			t.Errorf("DisplayHour(%d, %v) = %d, want %d", tt.hour, tt.format, got, tt.want)
		}
	}
}

func TestTwelveHourRoundTrip(t *testing.T) {
	for hour := uint8(0); hour < 24; hour++ {
		shown := DisplayHour(hour, models.TimeH12)
		if shown < 1 || shown > 12 {
			t.Fatalf("hour %d displayed as %d, outside 1..12", hour, shown)
		}
		if got := FromDisplayHour(shown, CycleOf(hour)); got != hour {
			t.Errorf("hour %d -> %d %v -> %d", hour, shown, CycleOf(hour), got)
		}
	}
}

func TestSecondsOfDay_StrictlyIncreasingAndBijective(t *testing.T) {
	seen := make([]bool, constants.SecondsPerDay)
	prev := int64(-1)
	for h := uint8(0); h < 24; h++ {
		for m := uint8(0); m < 60; m++ {
			for s := uint8(0); s < 60; s++ {
				v := SecondsOfDay(h, m, s)
				if int64(v) <= prev {
					t.Fatalf("SecondsOfDay(%d,%d,%d)=%d not greater than %d", h, m, s, v, prev)
				}
				prev = int64(v)
				if v >= constants.SecondsPerDay {
					t.Fatalf("SecondsOfDay(%d,%d,%d)=%d out of range", h, m, s, v)
				}
				seen[v] = true

				gh, gm, gs := SplitSecondsOfDay(v)
				if gh != h || gm != m || gs != s {
					t.Fatalf("SplitSecondsOfDay(%d) = %d:%d:%d", v, gh, gm, gs)
				}
			}
		}
	}
	for v, ok := range seen {
		if !ok {
			t.Fatalf("second %d never produced", v)
		}
	}
}

func TestFormatClock(t *testing.T) {
	r := Reading{Year: 24, Month: 3, Day: 9, Hour: 17, Minute: 5, Second: 7}

	tests := []struct {
		name       string
		sel        Selector
		dateFormat models.DateFormat
		timeFormat models.TimeFormat
		want       string
	}{
		{"time 24h", SelectTime, models.DateDDMMYY, models.TimeH24, "17:05:07"},
		{"time 12h", SelectTime, models.DateDDMMYY, models.TimeH12, "05:05:07"},
		{"date yymmdd", SelectDate, models.DateYYMMDD, models.TimeH24, "24.03.09"},
		{"date mmddyy", SelectDate, models.DateMMDDYY, models.TimeH24, "03.09.24"},
		{"date ddmmyy", SelectDate, models.DateDDMMYY, models.TimeH24, "09.03.24"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatClock(r, tt.sel, tt.dateFormat, tt.timeFormat)
			if got != tt.want {
				t.Errorf("FormatClock() = %q, want %q", got, tt.want)
			}
			if len(got) != constants.DisplayCount {
				t.Errorf("FormatClock() width = %d, want %d", len(got), constants.DisplayCount)
			}
		})
	}
}

func TestDateFieldOrder(t *testing.T) {
	got := DateFieldOrder(models.DateMMDDYY)
	want := []DateField{FieldMonth, FieldDay, FieldYear}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DateFieldOrder(mmddyy) = %v, want %v", got, want)
		}
	}

	// Mutating the returned slice must not affect the table.
	got[0] = FieldYear
	if DateFieldOrder(models.DateMMDDYY)[0] != FieldMonth {
		t.Error("DateFieldOrder returned an alias of the table")
	}
}

func TestFormatTemperature(t *testing.T) {
	if got := FormatTemperature(72.5); got != " 072;50 " {
		t.Errorf("FormatTemperature(72.5) = %q", got)
	}
	if got := FormatTemperature(-4); got != " 000;00 " {
		t.Errorf("FormatTemperature(-4) = %q", got)
	}
}

func TestFormatWorldLine(t *testing.T) {
	if got := FormatWorldLine(1048596); got != "1.048596" {
		t.Errorf("FormatWorldLine(1048596) = %q", got)
	}
	if got := FormatWorldLine(10000000 + 523299); got != " .523299" {
		t.Errorf("FormatWorldLine(blank lead) = %q", got)
	}
}
