package queries

import (
	"html/template"

	"weather-desk/models"
	"weather-desk/page"
)

var funcs = template.FuncMap{
	"num":    page.Number,
	"orDash": page.OrDash,
}

var summaryTmpl = template.Must(template.New("summary").Funcs(funcs).Parse(`
<div class="badge">Created #{{.ID}}</div>
<div><strong>{{.Label}}</strong></div>
<div class="muted">{{.StartDate}} → {{.EndDate}} · {{.Count}} days</div>`))

var rowsTmpl = template.Must(template.New("rows").Funcs(funcs).Parse(`
{{- range .}}
<tr>
  <td>{{.ID}}</td>
  <td>{{orDash .LocationName}}</td>
  <td>{{.StartDate}} → {{.EndDate}}</td>
  <td>
    <button data-action="view" data-id="{{.ID}}">View</button>
    <button data-action="edit" data-id="{{.ID}}">Edit</button>
    <button data-action="delete" data-id="{{.ID}}">Delete</button>
  </td>
</tr>
{{- end}}`))

var errorRowTmpl = template.Must(template.New("errorRow").Parse(`
<tr><td colspan="4" class="error">{{.}}</td></tr>`))

var editFormTmpl = template.Must(template.New("edit").Funcs(funcs).Parse(`
<h4>Edit Query #{{.ID}}</h4>
<form data-action="update" data-id="{{.ID}}">
  <input id="editLoc" name="editLoc" placeholder="Location" value="{{.LocationName}}" />
  <input id="editSd" name="editSd" type="date" value="{{.StartDate}}" />
  <input id="editEd" name="editEd" type="date" value="{{.EndDate}}" />
  <button type="submit">Save</button>
</form>
<div id="updateMsg" class="ok"></div>
<div id="updateErr" class="error"></div>`))

var detailTmpl = template.Must(template.New("detail").Funcs(funcs).Parse(`
<table>
  <thead>
    <tr><th>Date</th><th>Min °C</th><th>Max °C</th><th>Mean °C</th></tr>
  </thead>
  <tbody>
  {{- range .}}
    <tr>
      <td>{{.Date}}</td>
      <td>{{num .TMin}}</td>
      <td>{{num .TMax}}</td>
      <td>{{num .TMean}}</td>
    </tr>
  {{- end}}
  </tbody>
</table>`))

var errorSpanTmpl = template.Must(template.New("errorSpan").Parse(`<span class="error">{{.}}</span>`))

var mutedTmpl = template.Must(template.New("muted").Parse(`<em class="muted">{{.}}</em>`))

type summaryView struct {
	ID        int
	Label     string
	StartDate string
	EndDate   string
	Count     int
}

func renderSummary(q models.Query) template.HTML {
	label := q.Location.Label()
	return page.Render(summaryTmpl, summaryView{
		ID:        q.ID,
		Label:     page.OrDash(label),
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Count:     len(q.Observations),
	})
}

func renderRows(list []models.Query) template.HTML {
	return page.Render(rowsTmpl, list)
}

func renderEditForm(q models.Query) template.HTML {
	return page.Render(editFormTmpl, q)
}

func renderDetail(obs []models.Observation) template.HTML {
	if len(obs) == 0 {
		return page.Render(mutedTmpl, MsgNoObservations)
	}
	return page.Render(detailTmpl, obs)
}
