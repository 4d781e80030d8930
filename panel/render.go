package panel

import (
	"html/template"

	"weather-desk/models"
	"weather-desk/page"
)

var currentTmpl = template.Must(template.New("current").Parse(`
<div class="emoji" aria-hidden="true">{{.Emoji}}</div>
<div>
  <div class="place">{{.Place}}</div>
  <div class="meta">
    <div class="kv">Condition</div><div>{{.Condition}}</div>
    <div class="kv">Temp</div><div>{{.Temp}}</div>
    <div class="kv">Feels like</div><div>{{.FeelsLike}}</div>
    <div class="kv">Humidity</div><div>{{.Humidity}}</div>
    <div class="kv">Wind</div><div>{{.Wind}}</div>
  </div>
</div>`))

var forecastTmpl = template.Must(template.New("forecast").Parse(`
{{- range .}}
<div class="forecast-card">
  <div class="badge">{{.Day}}</div>
  <div class="emoji" aria-hidden="true">{{.Emoji}}</div>
  <div class="temp">{{.Low}} – {{.High}}</div>
</div>
{{- end}}`))

var mutedTmpl = template.Must(template.New("muted").Parse(`<em class="muted">{{.}}</em>`))

var errorTmpl = template.Must(template.New("error").Parse(`<span class="error">{{.}}</span>`))

// CurrentView is the display form of a weather snapshot
type CurrentView struct {
	Emoji     string
	Place     string
	Condition string
	Temp      string
	FeelsLike string
	Humidity  string
	Wind      string
}

// NewCurrentView formats a snapshot, substituting a dash for anything missing
func NewCurrentView(w models.WeatherSnapshot) CurrentView {
	cond := w.PrimaryCondition()
	icon := cond.Icon
	code := icon
	if code == "" {
		code = cond.Main
	}

	place := page.OrDash(w.Name)
	if w.Sys.Country != "" {
		place += ", " + w.Sys.Country
	}

	desc := cond.Description
	if desc == "" {
		desc = cond.Main
	}

	return CurrentView{
		Emoji:     EmojiFor(code, IsNightFromIcon(icon)),
		Place:     place,
		Condition: page.OrDash(desc),
		Temp:      page.Rounded(w.Main.Temp, "°C"),
		FeelsLike: page.Rounded(w.Main.FeelsLike, "°C"),
		Humidity:  page.Number(w.Main.Humidity) + percentUnless(w.Main.Humidity),
		Wind:      page.Rounded(w.Wind.Speed, " m/s"),
	}
}

func percentUnless(v *float64) string {
	if v == nil {
		return ""
	}
	return "%"
}

// DayCard is the display form of one forecast day
type DayCard struct {
	Day   string
	Emoji string
	Low   string
	High  string
}

// NewDayCard formats an aggregated forecast day
func NewDayCard(d models.DailyForecast) DayCard {
	return DayCard{
		Day:   d.Day,
		Emoji: EmojiFor(d.Icon, IsNightFromIcon(d.Icon)),
		Low:   page.Rounded(d.TMin, "°C"),
		High:  page.Rounded(d.TMax, "°C"),
	}
}

func renderCurrent(w models.WeatherSnapshot) template.HTML {
	return page.Render(currentTmpl, NewCurrentView(w))
}

func renderForecast(days []models.DailyForecast) template.HTML {
	if len(days) == 0 {
		return page.Render(mutedTmpl, MsgNoForecast)
	}
	cards := make([]DayCard, 0, len(days))
	for _, d := range days {
		cards = append(cards, NewDayCard(d))
	}
	return page.Render(forecastTmpl, cards)
}
