package page

import (
	"html"
	"html/template"
)

// Region is a named slot of the page, the equivalent of an element looked up by id.
//
// All methods are safe on a nil *Region and do nothing (or return zero values),
// so renderers can write to optional regions without checking for presence first.
type Region struct {
	id       string
	markup   template.HTML
	text     string
	value    string
	disabled bool
	doc      *Document
}

// ID returns the region id
func (r *Region) ID() string {
	if r == nil {
		return ""
	}
	return r.id
}

// SetHTML replaces the inner markup
func (r *Region) SetHTML(markup template.HTML) {
	if r == nil {
		return
	}
	r.markup = markup
	r.text = ""
	r.touch()
}

// SetText replaces the content with escaped plain text
func (r *Region) SetText(text string) {
	if r == nil {
		return
	}
	r.text = text
	r.markup = template.HTML(html.EscapeString(text))
	r.touch()
}

// Clear empties the region
func (r *Region) Clear() {
	r.SetText("")
}

// HTML returns the inner markup
func (r *Region) HTML() template.HTML {
	if r == nil {
		return ""
	}
	return r.markup
}

// Text returns the plain text last set with SetText
func (r *Region) Text() string {
	if r == nil {
		return ""
	}
	return r.text
}

// Value returns the value of an input region
func (r *Region) Value() string {
	if r == nil {
		return ""
	}
	return r.value
}

// SetValue sets the value of an input region
func (r *Region) SetValue(v string) {
	if r == nil {
		return
	}
	r.value = v
	r.touch()
}

// Disabled reports whether the control is disabled
func (r *Region) Disabled() bool {
	return r != nil && r.disabled
}

// SetDisabled enables or disables the control
func (r *Region) SetDisabled(disabled bool) {
	if r == nil {
		return
	}
	r.disabled = disabled
	r.touch()
}

func (r *Region) touch() {
	if r.doc != nil {
		r.doc.markDirty(r.id)
	}
}
