package api

import (
	"html/template"

	"weather-desk/page"
)

// regionView is one region of the initial page
type regionView struct {
	ID    string
	Kind  string // input, date, button, table or block
	Label string
	HTML  template.HTML
	Value string
}

type indexView struct {
	Regions []regionView
}

var regionKinds = map[string]struct{ kind, label string }{
	"loc":        {"input", "Location"},
	"sd":         {"date", "Start date"},
	"ed":         {"date", "End date"},
	"q":          {"input", "Place for current weather"},
	"createBtn":  {"button", "Create"},
	"queriesTbl": {"table", ""},
}

func newIndexView(doc *page.Document, layout []string) indexView {
	view := indexView{Regions: make([]regionView, 0, len(layout))}
	for _, id := range layout {
		r := doc.Lookup(id)
		if r == nil {
			continue
		}
		k, ok := regionKinds[id]
		if !ok {
			k.kind = "block"
		}
		view.Regions = append(view.Regions, regionView{
			ID:    id,
			Kind:  k.kind,
			Label: k.label,
			HTML:  r.HTML(),
			Value: r.Value(),
		})
	}
	return view
}

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Weather desk</title>
</head>
<body>
<main>
{{- range .Regions}}
  {{- if eq .Kind "input"}}
  <label>{{.Label}} <input id="{{.ID}}" name="{{.ID}}" value="{{.Value}}"></label>
  {{- else if eq .Kind "date"}}
  <label>{{.Label}} <input id="{{.ID}}" name="{{.ID}}" type="date" value="{{.Value}}"></label>
  {{- else if eq .Kind "button"}}
  <button id="{{.ID}}" data-action="create">{{.Label}}</button>
  {{- else if eq .Kind "table"}}
  <table id="{{.ID}}">
    <thead><tr><th>ID</th><th>Location</th><th>Range</th><th></th></tr></thead>
    <tbody data-region="{{.ID}}">{{.HTML}}</tbody>
  </table>
  {{- else}}
  <div id="{{.ID}}" data-region="{{.ID}}">{{.HTML}}</div>
  {{- end}}
{{- end}}
  <button data-action="current">Current weather</button>
  <button data-action="forecast">Forecast</button>
  <button data-action="geo">Use my location</button>
  <a href="/ui/export.json">Export JSON</a> <a href="/ui/export.csv">Export CSV</a>
</main>
<script>
const val = id => { const el = document.getElementById(id); return el ? el.value : null; };
const form = ids => { const f = new URLSearchParams(); ids.forEach(id => { const v = val(id); if (v !== null) f.set(id, v); }); return f; };
function apply(p) {
  (p.regions || []).forEach(c => {
    const el = document.querySelector('[data-region="' + c.id + '"]') || document.getElementById(c.id);
    if (!el) return;
    if ('value' in el && el.tagName === 'INPUT') el.value = c.value || '';
    else if (el.tagName === 'BUTTON') el.disabled = !!c.disabled;
    else el.innerHTML = c.html;
  });
  (p.alerts || []).forEach(a => alert(a));
  if (p.navigate) window.location.assign(p.navigate);
}
async function act(method, url, body, trigger) {
  if (trigger) trigger.disabled = true;
  let p;
  try {
    const res = await fetch(url, { method, body });
    p = await res.json();
  } finally {
    if (trigger) trigger.disabled = false;
  }
  apply(p);
}
document.addEventListener('click', e => {
  const t = e.target.closest('[data-action]');
  if (!t || t.tagName === 'FORM') return;
  e.preventDefault();
  const id = t.dataset.id;
  switch (t.dataset.action) {
    case 'create': return act('POST', '/ui/queries', form(['loc', 'sd', 'ed']), t);
    case 'view': return act('GET', '/ui/queries/' + id + '/view');
    case 'edit': return act('GET', '/ui/queries/' + id + '/edit');
    case 'delete':
      if (!confirm('Delete this query?')) return;
      return act('POST', '/ui/queries/' + id + '/delete', new URLSearchParams({ confirm: 'true' }));
    case 'current': return act('GET', '/ui/weather/current?' + form(['q']));
    case 'forecast': return act('GET', '/ui/weather/forecast?' + form(['q']));
    case 'geo': return act('POST', '/ui/weather/geo');
  }
});
document.addEventListener('submit', e => {
  const f = e.target;
  if (f.dataset.action !== 'update') return;
  e.preventDefault();
  act('POST', '/ui/queries/' + f.dataset.id, form(['editLoc', 'editSd', 'editEd']));
});
</script>
</body>
</html>
`))
