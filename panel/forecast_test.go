package panel

import (
	"testing"
	"time"

	"weather-desk/models"
)

func ptr(v float64) *float64 { return &v }

func item(at time.Time, temp, low, high *float64, icon, main string) models.ForecastItem {
	var it models.ForecastItem
	it.Dt = at.Unix()
	it.Main.Temp = temp
	it.Main.TempMin = low
	it.Main.TempMax = high
	if icon != "" || main != "" {
		it.Weather = []models.Condition{{Icon: icon, Main: main}}
	}
	return it
}

var day0 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestBucketForecastAggregatesDays(t *testing.T) {
	items := []models.ForecastItem{
		item(day0.Add(3*time.Hour), ptr(10), ptr(8), ptr(11), "01d", ""),
		item(day0.Add(9*time.Hour), ptr(15), ptr(14), ptr(18.6), "01d", ""),
		item(day0.Add(21*time.Hour), ptr(9), ptr(7.4), ptr(9.5), "10n", ""),
		item(day0.Add(27*time.Hour), ptr(12), nil, nil, "", "Rain"),
	}

	days := BucketForecast(items, MaxForecastDays)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}

	first := days[0]
	if first.Day != "2024-06-01" {
		t.Errorf("Day = %q", first.Day)
	}
	if *first.TMin != 7.4 || *first.TMax != 18.6 {
		t.Errorf("bounds = %v..%v, want 7.4..18.6", *first.TMin, *first.TMax)
	}
	if first.Icon != "01d" {
		t.Errorf("Icon = %q, want 01d", first.Icon)
	}

	second := days[1]
	if second.Day != "2024-06-02" || *second.TMin != 12 || *second.TMax != 12 {
		t.Errorf("temp should stand in for missing bounds: %+v", second)
	}
	if second.Icon != "Rain" {
		t.Errorf("condition name should vote when icon is missing, got %q", second.Icon)
	}
}

func TestBucketForecastKeepsFirstDays(t *testing.T) {
	for n := 0; n <= 8; n++ {
		var items []models.ForecastItem
		for d := 0; d < n; d++ {
			for h := 0; h < 24; h += 3 {
				items = append(items, item(day0.AddDate(0, 0, d).Add(time.Duration(h)*time.Hour), ptr(float64(d)), nil, nil, "04d", ""))
			}
		}

		days := BucketForecast(items, MaxForecastDays)
		want := n
		if want > MaxForecastDays {
			want = MaxForecastDays
		}
		if len(days) != want {
			t.Errorf("%d input days: got %d cards, want %d", n, len(days), want)
			continue
		}
		for i, d := range days {
			if d.Day != day0.AddDate(0, 0, i).Format("2006-01-02") {
				t.Errorf("card %d is %s, days must keep encounter order", i, d.Day)
			}
			if *d.TMin > *d.TMax {
				t.Errorf("card %d has min %v above max %v", i, *d.TMin, *d.TMax)
			}
		}
	}
}

func TestBucketForecastUsesUTCDays(t *testing.T) {
	local := time.FixedZone("UTC+3", 3*60*60)
	// 01:00 local is still the previous UTC day
	at := time.Date(2024, 6, 2, 1, 0, 0, 0, local)

	days := BucketForecast([]models.ForecastItem{item(at, ptr(5), nil, nil, "01n", "")}, MaxForecastDays)
	if len(days) != 1 || days[0].Day != "2024-06-01" {
		t.Errorf("expected UTC day 2024-06-01, got %+v", days)
	}
}

func TestBucketForecastMissingValues(t *testing.T) {
	days := BucketForecast([]models.ForecastItem{item(day0, nil, nil, nil, "", "")}, MaxForecastDays)
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if days[0].TMin != nil || days[0].TMax != nil {
		t.Error("bounds should stay unset without temperatures")
	}
	if days[0].Icon != fallbackIcon {
		t.Errorf("Icon = %q, want %q", days[0].Icon, fallbackIcon)
	}
	if card := NewDayCard(days[0]); card.Emoji != EmojiClouds {
		t.Errorf("fallback should render as clouds, got %q", card.Emoji)
	}
}

func TestDominantIcon(t *testing.T) {
	tests := []struct {
		name  string
		codes []string
		want  string
	}{
		{"majority", []string{"01d", "01d", "10n"}, "01d"},
		{"majority later", []string{"10n", "01d", "01d"}, "01d"},
		{"tie goes to first", []string{"04d", "10d", "10d", "04d"}, "04d"},
		{"single", []string{"13n"}, "13n"},
		{"empty", nil, fallbackIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DominantIcon(tt.codes); got != tt.want {
				t.Errorf("DominantIcon(%v) = %q, want %q", tt.codes, got, tt.want)
			}
		})
	}
}
