// Package page models the client page: a set of named regions plus the blocking
// dialogs and navigation a browser would offer. It is not safe for concurrent use;
// hosts create one Document per interaction.
package page

import "html/template"

// Dialogs shows blocking messages to the user
type Dialogs interface {
	Alert(message string)
	Confirm(message string) bool
}

// Document is the page a manager renders into
type Document struct {
	regions  map[string]*Region
	dialogs  Dialogs
	dirty    []string
	alerts   []string
	navigate string
}

// New creates a document with the given regions mounted
func New(dialogs Dialogs, ids ...string) *Document {
	d := &Document{
		regions: make(map[string]*Region, len(ids)),
		dialogs: dialogs,
	}
	for _, id := range ids {
		d.Mount(id)
	}
	d.dirty = nil
	return d
}

// Lookup returns the region with the given id, or nil when the page has none
func (d *Document) Lookup(id string) *Region {
	return d.regions[id]
}

// Has reports whether the region exists
func (d *Document) Has(id string) bool {
	_, ok := d.regions[id]
	return ok
}

// Mount adds a region if it does not exist yet and returns it
func (d *Document) Mount(id string) *Region {
	if r, ok := d.regions[id]; ok {
		return r
	}
	r := &Region{id: id, doc: d}
	d.regions[id] = r
	d.markDirty(id)
	return r
}

// Value is shorthand for Lookup(id).Value()
func (d *Document) Value(id string) string {
	return d.Lookup(id).Value()
}

// Alert records the message and forwards it to the dialogs, if any
func (d *Document) Alert(message string) {
	d.alerts = append(d.alerts, message)
	if d.dialogs != nil {
		d.dialogs.Alert(message)
	}
}

// Confirm asks the user; without dialogs the answer is no
func (d *Document) Confirm(message string) bool {
	if d.dialogs == nil {
		return false
	}
	return d.dialogs.Confirm(message)
}

// Assign navigates the page to url
func (d *Document) Assign(url string) {
	d.navigate = url
}

// Navigation returns the url passed to Assign, or ""
func (d *Document) Navigation() string {
	return d.navigate
}

// Alerts returns every alert raised so far
func (d *Document) Alerts() []string {
	return d.alerts
}

// Changes returns the markup of every region modified since the last call, in modification order
func (d *Document) Changes() []Change {
	changes := make([]Change, 0, len(d.dirty))
	for _, id := range d.dirty {
		r := d.regions[id]
		changes = append(changes, Change{
			ID:       id,
			HTML:     r.markup,
			Value:    r.value,
			Disabled: r.disabled,
		})
	}
	d.dirty = nil
	return changes
}

// Change is the state of one modified region
type Change struct {
	ID       string        `json:"id"`
	HTML     template.HTML `json:"html"`
	Value    string        `json:"value,omitempty"`
	Disabled bool          `json:"disabled,omitempty"`
}

func (d *Document) markDirty(id string) {
	for _, existing := range d.dirty {
		if existing == id {
			return
		}
	}
	d.dirty = append(d.dirty, id)
}

// Settle forgets pending changes, used by hosts after seeding input values
func (d *Document) Settle() {
	d.dirty = nil
}
