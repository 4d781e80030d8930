// Package queries drives create/list/view/edit/update/delete of saved weather queries
// and renders the results into page regions.
package queries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"weather-desk/datasource"
	"weather-desk/models"
	"weather-desk/page"

	"go.uber.org/zap"
)

// Region ids used by the query manager
const (
	RegionLocation  = "loc"
	RegionStart     = "sd"
	RegionEnd       = "ed"
	RegionCreateBtn = "createBtn"
	RegionCreateErr = "createErr"
	RegionCreateMsg = "createMsg"
	RegionCreateOut = "createOut"
	RegionTable     = "queriesTbl"
	RegionDetail    = "detailPanel"
	RegionEditLoc   = "editLoc"
	RegionEditStart = "editSd"
	RegionEditEnd   = "editEd"
	RegionUpdateMsg = "updateMsg"
	RegionUpdateErr = "updateErr"
)

// User-facing messages
const (
	MsgBadRange       = "Start date must be before or equal to end date."
	MsgCreateFailed   = "Failed to create query."
	MsgNotFound       = "Query not found"
	MsgUpdated        = "✅ Query updated successfully!"
	MsgUpdateFailed   = "❌ Update failed"
	MsgConfirmDelete  = "Delete this query?"
	MsgDeleteFailed   = "Failed to delete query."
	MsgLoadFailed     = "Failed to load."
	MsgListFailed     = "Failed to load queries."
	MsgNoObservations = "No observations."
)

// ErrBadFormat is returned by ExportQueries for formats other than json and csv
var ErrBadFormat = errors.New("format must be json or csv")

// Manager renders the saved queries UI on top of a QueryStore
type Manager struct {
	store  datasource.QueryStore
	logger *zap.SugaredLogger
}

// NewManager creates a query manager
func NewManager(store datasource.QueryStore, logger *zap.SugaredLogger) *Manager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Manager{store: store, logger: logger}
}

// ValidRange reports whether start is not after end. Empty dates are left to the backend.
func ValidRange(start, end string) bool {
	if start == "" || end == "" {
		return true
	}
	s, errS := time.Parse("2006-01-02", start)
	e, errE := time.Parse("2006-01-02", end)
	if errS == nil && errE == nil {
		return !s.After(e)
	}
	// ISO dates order lexically
	return start <= end
}

// CreateQuery submits the create form. Depending on which regions exist the result is shown
// as a summary (createMsg), a text line (createOut), or by navigating to the detail view.
func (m *Manager) CreateQuery(ctx context.Context, doc *page.Document) {
	in := models.QueryInput{
		Location:  strings.TrimSpace(doc.Value(RegionLocation)),
		StartDate: doc.Value(RegionStart),
		EndDate:   doc.Value(RegionEnd),
	}

	if !ValidRange(in.StartDate, in.EndDate) {
		showCreateError(doc, MsgBadRange)
		return
	}

	btn := doc.Lookup(RegionCreateBtn)
	btn.SetDisabled(true)
	q, err := m.store.CreateQuery(ctx, in)
	btn.SetDisabled(false)

	if err != nil {
		m.logger.Warnw("create query failed", "location", in.Location, "error", err)
		showCreateError(doc, datasource.Message(err, MsgCreateFailed))
		return
	}

	doc.Lookup(RegionCreateErr).Clear()
	switch {
	case doc.Has(RegionCreateMsg):
		doc.Lookup(RegionCreateMsg).SetHTML(renderSummary(q))
	case doc.Has(RegionCreateOut):
		doc.Lookup(RegionCreateOut).SetText(fmt.Sprintf("Created #%d for %s %s → %s",
			q.ID, page.OrDash(q.LocationName()), q.StartDate, q.EndDate))
	default:
		doc.Assign(fmt.Sprintf("/queries/%d/view", q.ID))
		return
	}
	m.logger.Infow("query created", "id", q.ID, "location", q.LocationName())

	m.LoadQueries(ctx, doc)
}

func showCreateError(doc *page.Document, msg string) {
	doc.Lookup(RegionCreateErr).SetText(msg)
	doc.Lookup(RegionCreateMsg).Clear()
	doc.Lookup(RegionCreateOut).Clear()
}

// LoadQueries replaces the table body with one row per saved query
func (m *Manager) LoadQueries(ctx context.Context, doc *page.Document) {
	tbl := doc.Lookup(RegionTable)
	list, err := m.store.ListQueries(ctx)
	if err != nil {
		m.logger.Warnw("list queries failed", "error", err)
		tbl.SetHTML(page.Render(errorRowTmpl, datasource.Message(err, MsgListFailed)))
		return
	}
	tbl.SetHTML(renderRows(list))
}

// EditQuery replaces the detail panel with an edit form pre-filled from the backend
func (m *Manager) EditQuery(ctx context.Context, doc *page.Document, id int) {
	q, err := m.store.GetQuery(ctx, id)
	if err != nil {
		m.logger.Warnw("get query failed", "id", id, "error", err)
		doc.Alert(MsgNotFound)
		return
	}

	doc.Lookup(RegionDetail).SetHTML(renderEditForm(q))
	doc.Mount(RegionEditLoc).SetValue(q.LocationName())
	doc.Mount(RegionEditStart).SetValue(q.StartDate)
	doc.Mount(RegionEditEnd).SetValue(q.EndDate)
	doc.Mount(RegionUpdateMsg).Clear()
	doc.Mount(RegionUpdateErr).Clear()
}

// UpdateQuery submits the edit form for id
func (m *Manager) UpdateQuery(ctx context.Context, doc *page.Document, id int) {
	in := models.QueryInput{
		Location:  strings.TrimSpace(doc.Value(RegionEditLoc)),
		StartDate: doc.Value(RegionEditStart),
		EndDate:   doc.Value(RegionEditEnd),
	}

	msg, errBox := doc.Lookup(RegionUpdateMsg), doc.Lookup(RegionUpdateErr)
	if _, err := m.store.UpdateQuery(ctx, id, in); err != nil {
		m.logger.Warnw("update query failed", "id", id, "error", err)
		errBox.SetText(datasource.Message(err, MsgUpdateFailed))
		msg.Clear()
		return
	}

	msg.SetText(MsgUpdated)
	errBox.Clear()
	m.logger.Infow("query updated", "id", id)

	m.LoadQueries(ctx, doc)
}

// DeleteQuery deletes id after the user confirms
func (m *Manager) DeleteQuery(ctx context.Context, doc *page.Document, id int) {
	if !doc.Confirm(MsgConfirmDelete) {
		return
	}
	if err := m.store.DeleteQuery(ctx, id); err != nil {
		m.logger.Warnw("delete query failed", "id", id, "error", err)
		doc.Alert(MsgDeleteFailed)
		return
	}
	m.logger.Infow("query deleted", "id", id)
	m.LoadQueries(ctx, doc)
}

// ViewQuery renders the observations table of id into the detail panel
func (m *Manager) ViewQuery(ctx context.Context, doc *page.Document, id int) {
	detail := doc.Lookup(RegionDetail)
	q, err := m.store.GetQuery(ctx, id)
	if err != nil {
		m.logger.Warnw("get query failed", "id", id, "error", err)
		detail.SetHTML(page.Render(errorSpanTmpl, datasource.Message(err, MsgLoadFailed)))
		return
	}
	detail.SetHTML(renderDetail(q.Observations))
}

// ExportQueries downloads every query in format "json" or "csv"
func (m *Manager) ExportQueries(ctx context.Context, format string) ([]byte, error) {
	format = strings.ToLower(format)
	if format != "json" && format != "csv" {
		return nil, ErrBadFormat
	}
	data, err := m.store.Export(ctx, format)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}
	return data, nil
}
