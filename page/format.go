package page

import (
	"bytes"
	"html"
	"html/template"
	"math"
	"strconv"
)

// Dash stands in for any missing value
const Dash = "—"

// Render executes t and returns the markup. A failing template yields an escaped error note.
func Render(t *template.Template, data interface{}) template.HTML {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return template.HTML(`<span class="error">` + html.EscapeString(err.Error()) + `</span>`)
	}
	return template.HTML(buf.String())
}

// Round rounds half up, so -2.5 becomes -2 and 2.5 becomes 3
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Number prints v in its shortest form, or Dash when nil
func Number(v *float64) string {
	if v == nil {
		return Dash
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Rounded prints v rounded half up with a unit suffix, or Dash when nil
func Rounded(v *float64, unit string) string {
	if v == nil {
		return Dash
	}
	return strconv.FormatFloat(Round(*v), 'f', 0, 64) + unit
}

// OrDash returns s, or Dash when s is empty
func OrDash(s string) string {
	if s == "" {
		return Dash
	}
	return s
}
