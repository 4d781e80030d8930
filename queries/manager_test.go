package queries

import (
	"context"
	"errors"
	"strings"
	"testing"

	"weather-desk/datasource"
	"weather-desk/models"
	"weather-desk/page"
)

// memoryStore is a QueryStore over a slice that counts every call
type memoryStore struct {
	queries []models.Query
	nextID  int
	calls   map[string]int

	createErr error
	listErr   error

	// during runs inside CreateQuery, while the call is in flight
	during func()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{nextID: 1, calls: make(map[string]int)}
}

func (s *memoryStore) CreateQuery(_ context.Context, in models.QueryInput) (models.Query, error) {
	s.calls["create"]++
	if s.during != nil {
		s.during()
	}
	if s.createErr != nil {
		return models.Query{}, s.createErr
	}
	low, high, mean := -1.0, 4.5, 1.7
	q := models.Query{
		ID:        s.nextID,
		Location:  &models.Location{Name: in.Location, Country: "Norway"},
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Observations: []models.Observation{
			{Date: in.StartDate, TMin: &low, TMax: &high, TMean: &mean},
		},
	}
	s.nextID++
	s.queries = append([]models.Query{q}, s.queries...)
	return q, nil
}

func (s *memoryStore) ListQueries(context.Context) ([]models.Query, error) {
	s.calls["list"]++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.queries, nil
}

func (s *memoryStore) GetQuery(_ context.Context, id int) (models.Query, error) {
	s.calls["get"]++
	for _, q := range s.queries {
		if q.ID == id {
			return q, nil
		}
	}
	return models.Query{}, &datasource.APIError{Status: 404, Message: "Not found"}
}

func (s *memoryStore) UpdateQuery(_ context.Context, id int, in models.QueryInput) (models.Query, error) {
	s.calls["update"]++
	if in.Location == "" {
		return models.Query{}, &datasource.APIError{Status: 400, Message: "location is required"}
	}
	for i, q := range s.queries {
		if q.ID == id {
			q.Location = &models.Location{Name: in.Location}
			q.StartDate, q.EndDate = in.StartDate, in.EndDate
			s.queries[i] = q
			return q, nil
		}
	}
	return models.Query{}, &datasource.APIError{Status: 404, Message: "Not found"}
}

func (s *memoryStore) DeleteQuery(_ context.Context, id int) error {
	s.calls["delete"]++
	for i, q := range s.queries {
		if q.ID == id {
			s.queries = append(s.queries[:i], s.queries[i+1:]...)
			return nil
		}
	}
	return &datasource.APIError{Status: 404, Message: "Not found"}
}

func (s *memoryStore) Export(_ context.Context, format string) ([]byte, error) {
	s.calls["export"]++
	return []byte(format), nil
}

func (s *memoryStore) total() int {
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

var _ datasource.QueryStore = (*memoryStore)(nil)

func fullPage(dialogs page.Dialogs) *page.Document {
	return page.New(dialogs, RegionLocation, RegionStart, RegionEnd, RegionCreateBtn,
		RegionCreateErr, RegionCreateMsg, RegionTable, RegionDetail)
}

func fillForm(doc *page.Document, loc, start, end string) {
	doc.Lookup(RegionLocation).SetValue(loc)
	doc.Lookup(RegionStart).SetValue(start)
	doc.Lookup(RegionEnd).SetValue(end)
}

func TestValidRange(t *testing.T) {
	tests := []struct {
		start, end string
		want       bool
	}{
		{"2024-01-01", "2024-01-02", true},
		{"2024-01-02", "2024-01-02", true},
		{"2024-01-03", "2024-01-02", false},
		{"2023-12-31", "2024-01-01", true},
		{"", "2024-01-01", true},
		{"2024-01-01", "", true},
	}

	for _, tt := range tests {
		if got := ValidRange(tt.start, tt.end); got != tt.want {
			t.Errorf("ValidRange(%q, %q) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestCreateQueryRejectsReversedRangeWithoutRequest(t *testing.T) {
	store := newMemoryStore()
	m := NewManager(store, nil)

	ranges := [][2]string{
		{"2024-01-02", "2024-01-01"},
		{"2025-01-01", "2024-12-31"},
		{"2024-03-10", "2024-03-09"},
	}
	for _, r := range ranges {
		doc := fullPage(nil)
		fillForm(doc, "Oslo", r[0], r[1])
		m.CreateQuery(context.Background(), doc)

		if got := doc.Lookup(RegionCreateErr).Text(); got != MsgBadRange {
			t.Errorf("%v: createErr = %q", r, got)
		}
	}
	if store.total() != 0 {
		t.Errorf("expected no store calls, got %v", store.calls)
	}
}

func TestCreateQueryThenListIncludesID(t *testing.T) {
	store := newMemoryStore()
	m := NewManager(store, nil)
	doc := fullPage(nil)
	fillForm(doc, "  Oslo ", "2024-01-01", "2024-01-01")

	m.CreateQuery(context.Background(), doc)

	if doc.Lookup(RegionCreateBtn).Disabled() {
		t.Error("create button should be enabled again")
	}
	summary := string(doc.Lookup(RegionCreateMsg).HTML())
	for _, want := range []string{"Created #1", "Oslo, Norway", "2024-01-01 → 2024-01-01", "1 days"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if store.queries[0].LocationName() != "Oslo" {
		t.Errorf("location not trimmed: %q", store.queries[0].LocationName())
	}

	m.LoadQueries(context.Background(), doc)
	table := string(doc.Lookup(RegionTable).HTML())
	if !strings.Contains(table, `data-id="1"`) || !strings.Contains(table, "<td>1</td>") {
		t.Errorf("table does not list query 1:\n%s", table)
	}
}

func TestCreateQueryResultRegions(t *testing.T) {
	t.Run("text line", func(t *testing.T) {
		m := NewManager(newMemoryStore(), nil)
		doc := page.New(nil, RegionLocation, RegionStart, RegionEnd, RegionCreateOut)
		fillForm(doc, "Bergen", "2024-05-01", "2024-05-03")

		m.CreateQuery(context.Background(), doc)

		if got := doc.Lookup(RegionCreateOut).Text(); got != "Created #1 for Bergen 2024-05-01 → 2024-05-03" {
			t.Errorf("createOut = %q", got)
		}
		if doc.Navigation() != "" {
			t.Errorf("unexpected navigation to %q", doc.Navigation())
		}
	})

	t.Run("navigate", func(t *testing.T) {
		store := newMemoryStore()
		m := NewManager(store, nil)
		doc := page.New(nil, RegionLocation, RegionStart, RegionEnd)
		fillForm(doc, "Bergen", "2024-05-01", "2024-05-03")

		m.CreateQuery(context.Background(), doc)

		if doc.Navigation() != "/queries/1/view" {
			t.Errorf("Navigation = %q", doc.Navigation())
		}
		if store.calls["list"] != 0 {
			t.Error("navigating away should not reload the list")
		}
	})
}

func TestCreateQueryDisablesButtonWhileInFlight(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"failure", &datasource.APIError{Status: 500, Message: "upstream unavailable"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			store.createErr = tt.err
			m := NewManager(store, nil)
			doc := fullPage(nil)
			fillForm(doc, "Oslo", "2024-01-01", "2024-01-02")

			var disabledDuring []bool
			store.during = func() {
				disabledDuring = append(disabledDuring, doc.Lookup(RegionCreateBtn).Disabled())
			}

			m.CreateQuery(context.Background(), doc)

			if len(disabledDuring) != 1 || !disabledDuring[0] {
				t.Errorf("create button should be disabled during the call, got %v", disabledDuring)
			}
			if doc.Lookup(RegionCreateBtn).Disabled() {
				t.Error("create button should be enabled after the call")
			}
		})
	}
}

func TestCreateQueryShowsBackendMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"backend message", &datasource.APIError{Status: 404, Message: "Location not found"}, "Location not found"},
		{"no message", errors.New("connection refused"), MsgCreateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			store.createErr = tt.err
			m := NewManager(store, nil)
			doc := fullPage(nil)
			doc.Lookup(RegionCreateMsg).SetText("stale")
			fillForm(doc, "Atlantis", "2024-01-01", "2024-01-02")

			m.CreateQuery(context.Background(), doc)

			if got := doc.Lookup(RegionCreateErr).Text(); got != tt.want {
				t.Errorf("createErr = %q, want %q", got, tt.want)
			}
			if doc.Lookup(RegionCreateMsg).HTML() != "" {
				t.Error("summary should be cleared on failure")
			}
			if doc.Lookup(RegionCreateBtn).Disabled() {
				t.Error("create button should be enabled again")
			}
		})
	}
}

func TestLoadQueries(t *testing.T) {
	store := newMemoryStore()
	store.queries = []models.Query{
		{ID: 2, Location: &models.Location{Name: "Turku"}, StartDate: "2024-02-01", EndDate: "2024-02-02"},
		{ID: 1, StartDate: "2024-01-01", EndDate: "2024-01-02"},
	}
	m := NewManager(store, nil)
	doc := fullPage(nil)

	m.LoadQueries(context.Background(), doc)
	table := string(doc.Lookup(RegionTable).HTML())

	if strings.Index(table, `data-id="2"`) > strings.Index(table, `data-id="1"`) {
		t.Error("rows should keep backend order")
	}
	if !strings.Contains(table, "<td>"+page.Dash+"</td>") {
		t.Error("query without location should show a dash")
	}
	for _, action := range []string{"view", "edit", "delete"} {
		if strings.Count(table, `data-action="`+action+`"`) != 2 {
			t.Errorf("expected two %s buttons", action)
		}
	}

	store.listErr = errors.New("boom")
	m.LoadQueries(context.Background(), doc)
	if got := string(doc.Lookup(RegionTable).HTML()); !strings.Contains(got, MsgListFailed) {
		t.Errorf("expected error row, got %q", got)
	}
}

func TestLoadQueriesEscapesLocation(t *testing.T) {
	store := newMemoryStore()
	store.queries = []models.Query{
		{ID: 1, Location: &models.Location{Name: `<img src=x onerror="alert(1)">`}},
	}
	m := NewManager(store, nil)
	doc := fullPage(nil)

	m.LoadQueries(context.Background(), doc)
	if table := string(doc.Lookup(RegionTable).HTML()); strings.Contains(table, "<img") {
		t.Errorf("location name was not escaped:\n%s", table)
	}
}

func TestViewQuery(t *testing.T) {
	store := newMemoryStore()
	low := 3.25
	store.queries = []models.Query{
		{ID: 7, Observations: []models.Observation{{Date: "2024-01-01", TMin: &low}}},
		{ID: 8},
	}
	m := NewManager(store, nil)
	doc := fullPage(nil)

	m.ViewQuery(context.Background(), doc, 7)
	detail := string(doc.Lookup(RegionDetail).HTML())
	if !strings.Contains(detail, "<td>3.25</td>") {
		t.Errorf("expected t_min cell:\n%s", detail)
	}
	if strings.Count(detail, "<td>"+page.Dash+"</td>") != 2 {
		t.Errorf("expected dashes for missing t_max and t_mean:\n%s", detail)
	}

	m.ViewQuery(context.Background(), doc, 8)
	if got := string(doc.Lookup(RegionDetail).HTML()); !strings.Contains(got, MsgNoObservations) {
		t.Errorf("expected empty note, got %q", got)
	}

	m.ViewQuery(context.Background(), doc, 99)
	if got := string(doc.Lookup(RegionDetail).HTML()); !strings.Contains(got, "Not found") {
		t.Errorf("expected backend message, got %q", got)
	}
}

func TestEditAndUpdateQuery(t *testing.T) {
	store := newMemoryStore()
	store.queries = []models.Query{
		{ID: 3, Location: &models.Location{Name: "Tampere"}, StartDate: "2024-03-01", EndDate: "2024-03-02"},
	}
	m := NewManager(store, nil)
	doc := fullPage(nil)
	ctx := context.Background()

	m.EditQuery(ctx, doc, 3)
	form := string(doc.Lookup(RegionDetail).HTML())
	if !strings.Contains(form, "Edit Query #3") || !strings.Contains(form, `value="Tampere"`) {
		t.Errorf("unexpected edit form:\n%s", form)
	}
	if doc.Value(RegionEditLoc) != "Tampere" || doc.Value(RegionEditStart) != "2024-03-01" {
		t.Error("edit inputs not pre-filled")
	}

	doc.Lookup(RegionEditLoc).SetValue("Oulu")
	m.UpdateQuery(ctx, doc, 3)
	if got := doc.Lookup(RegionUpdateMsg).Text(); got != MsgUpdated {
		t.Errorf("updateMsg = %q", got)
	}
	if !strings.Contains(string(doc.Lookup(RegionTable).HTML()), "Oulu") {
		t.Error("table not refreshed after update")
	}

	doc.Lookup(RegionEditLoc).SetValue("")
	m.UpdateQuery(ctx, doc, 3)
	if got := doc.Lookup(RegionUpdateErr).Text(); got != "location is required" {
		t.Errorf("updateErr = %q", got)
	}
	if doc.Lookup(RegionUpdateMsg).Text() != "" {
		t.Error("success message should be cleared on failure")
	}
}

func TestEditQueryNotFoundAlerts(t *testing.T) {
	m := NewManager(newMemoryStore(), nil)
	doc := fullPage(nil)

	m.EditQuery(context.Background(), doc, 42)

	if alerts := doc.Alerts(); len(alerts) != 1 || alerts[0] != MsgNotFound {
		t.Errorf("Alerts = %v", alerts)
	}
	if doc.Has(RegionEditLoc) {
		t.Error("edit form should not be mounted")
	}
}

func TestDeleteQuery(t *testing.T) {
	seed := func() *memoryStore {
		store := newMemoryStore()
		store.queries = []models.Query{{ID: 1}, {ID: 2}}
		return store
	}

	t.Run("declined", func(t *testing.T) {
		store := seed()
		m := NewManager(store, nil)
		answers := &page.Answers{ConfirmAll: false}
		doc := fullPage(answers)

		m.DeleteQuery(context.Background(), doc, 1)

		if store.calls["delete"] != 0 || store.calls["list"] != 0 {
			t.Errorf("declined delete reached the store: %v", store.calls)
		}
		if len(answers.Asked) != 1 || answers.Asked[0] != MsgConfirmDelete {
			t.Errorf("Asked = %v", answers.Asked)
		}
		if len(doc.Changes()) != 0 {
			t.Error("table should be unchanged")
		}
	})

	t.Run("confirmed", func(t *testing.T) {
		store := seed()
		m := NewManager(store, nil)
		doc := fullPage(&page.Answers{ConfirmAll: true})

		m.DeleteQuery(context.Background(), doc, 1)

		table := string(doc.Lookup(RegionTable).HTML())
		if strings.Contains(table, `data-id="1"`) || !strings.Contains(table, `data-id="2"`) {
			t.Errorf("unexpected table after delete:\n%s", table)
		}
	})

	t.Run("failure alerts", func(t *testing.T) {
		store := seed()
		m := NewManager(store, nil)
		doc := fullPage(&page.Answers{ConfirmAll: true})

		m.DeleteQuery(context.Background(), doc, 99)

		if alerts := doc.Alerts(); len(alerts) != 1 || alerts[0] != MsgDeleteFailed {
			t.Errorf("Alerts = %v", alerts)
		}
		if store.calls["list"] != 0 {
			t.Error("list should not reload after a failed delete")
		}
	})
}

func TestExportQueries(t *testing.T) {
	store := newMemoryStore()
	m := NewManager(store, nil)

	data, err := m.ExportQueries(context.Background(), "CSV")
	if err != nil {
		t.Fatalf("ExportQueries failed: %v", err)
	}
	if string(data) != "csv" {
		t.Errorf("format not normalised, store saw %q", data)
	}

	if _, err := m.ExportQueries(context.Background(), "xml"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
	if store.calls["export"] != 1 {
		t.Errorf("expected one export call, got %d", store.calls["export"])
	}
}
