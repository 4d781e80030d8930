package panel

import "strings"

// Condition glyphs
const (
	EmojiSun          = "☀️"
	EmojiMoon         = "🌙"
	EmojiFewClouds    = "🌤️"
	EmojiScattered    = "⛅"
	EmojiClouds       = "☁️"
	EmojiRain         = "🌧️"
	EmojiShowers      = "🌦️"
	EmojiThunder      = "⛈️"
	EmojiSnow         = "❄️"
	EmojiMist         = "🌫️"
	EmojiUnrecognized = "🌍"
)

// icon code prefixes, checked in order
var prefixes = []struct {
	prefix string
	emoji  string
}{
	{"02", EmojiFewClouds},
	{"03", EmojiScattered},
	{"04", EmojiClouds},
	{"09", EmojiRain},
	{"10", EmojiShowers},
	{"11", EmojiThunder},
	{"13", EmojiSnow},
	{"50", EmojiMist},
}

// condition keywords, checked in order after every prefix
var keywords = []struct {
	words []string
	emoji string
}{
	{[]string{"thunder"}, EmojiThunder},
	{[]string{"drizzle"}, EmojiShowers},
	{[]string{"rain"}, EmojiRain},
	{[]string{"snow"}, EmojiSnow},
	{[]string{"mist", "fog", "haze", "smoke"}, EmojiMist},
	{[]string{"cloud"}, EmojiClouds},
}

func clearSky(night bool) string {
	if night {
		return EmojiMoon
	}
	return EmojiSun
}

// EmojiFor maps an icon code ("01d", "10n") or a condition name ("Rain") to a glyph.
// Two-digit code prefixes win over keywords; only clear sky has a night variant.
func EmojiFor(code string, night bool) string {
	c := strings.ToLower(code)

	if strings.HasPrefix(c, "01") {
		return clearSky(night)
	}
	for _, p := range prefixes {
		if strings.HasPrefix(c, p.prefix) {
			return p.emoji
		}
	}

	for _, k := range keywords {
		for _, w := range k.words {
			if strings.Contains(c, w) {
				return k.emoji
			}
		}
	}
	if strings.Contains(c, "clear") {
		return clearSky(night)
	}

	return EmojiUnrecognized
}

// IsNightFromIcon reports whether icon is a string code ending in "n".
// Icons come from loosely typed JSON, so any value is accepted.
func IsNightFromIcon(icon interface{}) bool {
	s, ok := icon.(string)
	return ok && strings.HasSuffix(s, "n")
}
