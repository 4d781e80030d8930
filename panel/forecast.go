package panel

import (
	"weather-desk/models"
)

// MaxForecastDays caps the number of day cards
const MaxForecastDays = 5

// fallbackIcon is voted for items that carry neither icon nor condition
const fallbackIcon = "clouds"

// BucketForecast groups items by UTC calendar day and keeps the first maxDays days in
// encounter order. Each day gets the lowest temp_min and highest temp_max of its items
// (temp stands in for a missing bound) and the icon most items agree on.
func BucketForecast(items []models.ForecastItem, maxDays int) []models.DailyForecast {
	type bucket struct {
		day   models.DailyForecast
		votes map[string]int
		order []string
	}

	var days []*bucket
	index := make(map[string]*bucket)

	for _, item := range items {
		key := item.Day()
		b, ok := index[key]
		if !ok {
			if len(days) == maxDays {
				continue
			}
			b = &bucket{day: models.DailyForecast{Day: key}, votes: make(map[string]int)}
			index[key] = b
			days = append(days, b)
		}

		if low := firstSet(item.Main.TempMin, item.Main.Temp); low != nil {
			if b.day.TMin == nil || *low < *b.day.TMin {
				v := *low
				b.day.TMin = &v
			}
		}
		if high := firstSet(item.Main.TempMax, item.Main.Temp); high != nil {
			if b.day.TMax == nil || *high > *b.day.TMax {
				v := *high
				b.day.TMax = &v
			}
		}

		icon := voteFor(item)
		if _, seen := b.votes[icon]; !seen {
			b.order = append(b.order, icon)
		}
		b.votes[icon]++
	}

	out := make([]models.DailyForecast, 0, len(days))
	for _, b := range days {
		b.day.Icon = dominant(b.order, b.votes)
		out = append(out, b.day)
	}
	return out
}

// DominantIcon returns the most frequent code; ties go to the first one seen
func DominantIcon(codes []string) string {
	votes := make(map[string]int)
	var order []string
	for _, c := range codes {
		if _, seen := votes[c]; !seen {
			order = append(order, c)
		}
		votes[c]++
	}
	return dominant(order, votes)
}

func dominant(order []string, votes map[string]int) string {
	best, bestVotes := fallbackIcon, 0
	for _, code := range order {
		if votes[code] > bestVotes {
			best, bestVotes = code, votes[code]
		}
	}
	return best
}

func voteFor(item models.ForecastItem) string {
	if len(item.Weather) > 0 {
		if item.Weather[0].Icon != "" {
			return item.Weather[0].Icon
		}
		if item.Weather[0].Main != "" {
			return item.Weather[0].Main
		}
	}
	return fallbackIcon
}

func firstSet(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
