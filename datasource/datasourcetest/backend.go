// Package datasourcetest provides an in-memory weather/query backend for tests.
package datasourcetest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"weather-desk/models"

	"github.com/segmentio/encoding/json"
)

// UnknownPlace is a location name the fake geocoder cannot resolve
const UnknownPlace = "Nowhere"

// Backend implements the backend REST contract over a map
type Backend struct {
	mu       sync.Mutex
	nextID   int
	queries  map[int]models.Query
	requests []string

	// Current and Forecast are served for every place
	Current  models.WeatherSnapshot
	Forecast models.ForecastResponse

	// FailNext makes the next n requests answer 500
	FailNext int

	server *httptest.Server
}

// NewBackend starts a fake backend; callers must Close it
func NewBackend() *Backend {
	b := &Backend{
		nextID:  1,
		queries: make(map[int]models.Query),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/queries", b.handleQueries)
	mux.HandleFunc("/api/queries/", b.handleQuery)
	mux.HandleFunc("/api/weather/current", b.handleCurrent)
	mux.HandleFunc("/api/weather/forecast", b.handleForecast)
	mux.HandleFunc("/export.json", b.handleExport)
	mux.HandleFunc("/export.csv", b.handleExport)

	b.server = httptest.NewServer(b.record(mux))
	return b
}

// URL is the base URL of the backend
func (b *Backend) URL() string {
	return b.server.URL
}

// Close shuts the backend down
func (b *Backend) Close() {
	b.server.Close()
}

// Requests returns "METHOD /path" for every request received, query strings included
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// Count returns how many requests used method on a path starting with prefix
func (b *Backend) Count(method, prefix string) int {
	n := 0
	for _, r := range b.Requests() {
		if strings.HasPrefix(r, method+" "+prefix) {
			n++
		}
	}
	return n
}

// Seed stores a query as if it had been created, assigning its id
func (b *Backend) Seed(q models.Query) models.Query {
	b.mu.Lock()
	defer b.mu.Unlock()
	q.ID = b.nextID
	b.nextID++
	b.queries[q.ID] = q
	return q
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.RequestURI())
		fail := b.FailNext > 0
		if fail {
			b.FailNext--
		}
		b.mu.Unlock()

		if fail {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "upstream unavailable"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// build validates input and produces a query with one observation per day
func build(in models.QueryInput) (models.Query, int, string) {
	loc := strings.TrimSpace(in.Location)
	if loc == "" {
		return models.Query{}, http.StatusBadRequest, "location is required"
	}
	start, errS := time.Parse("2006-01-02", in.StartDate)
	end, errE := time.Parse("2006-01-02", in.EndDate)
	if errS != nil || errE != nil {
		return models.Query{}, http.StatusBadRequest, "start_date and end_date (YYYY-MM-DD) are required"
	}
	if start.After(end) {
		return models.Query{}, http.StatusBadRequest, "start_date must be <= end_date"
	}
	if strings.EqualFold(loc, UnknownPlace) {
		return models.Query{}, http.StatusNotFound, "Location not found"
	}

	q := models.Query{
		Location:  &models.Location{Name: loc, Country: "Testland"},
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		low, high, mean := 1.0, 10.0, 5.5
		q.Observations = append(q.Observations, models.Observation{
			Date: d.Format("2006-01-02"), TMin: &low, TMax: &high, TMean: &mean,
		})
	}
	return q, 0, ""
}

func (b *Backend) handleQueries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		b.mu.Lock()
		list := make([]models.Query, 0, len(b.queries))
		for _, q := range b.queries {
			q.Observations = nil
			list = append(list, q)
		}
		b.mu.Unlock()
		sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var in models.QueryInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			fail(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		q, status, msg := build(in)
		if status != 0 {
			fail(w, status, msg)
			return
		}
		writeJSON(w, http.StatusCreated, b.Seed(q))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *Backend) handleQuery(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/queries/"))
	if err != nil {
		fail(w, http.StatusNotFound, "Not found")
		return
	}

	b.mu.Lock()
	q, ok := b.queries[id]
	b.mu.Unlock()
	if !ok {
		fail(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, q)

	case http.MethodPut:
		var in models.QueryInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			fail(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if in.Location == "" {
			in.Location = q.LocationName()
		}
		updated, status, msg := build(in)
		if status != 0 {
			fail(w, status, msg)
			return
		}
		updated.ID = id
		b.mu.Lock()
		b.queries[id] = updated
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		b.mu.Lock()
		delete(b.queries, id)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "deleted", "id": id})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func hasPlace(r *http.Request) bool {
	q := r.URL.Query()
	return q.Get("q") != "" || (q.Get("lat") != "" && q.Get("lon") != "")
}

func (b *Backend) handleCurrent(w http.ResponseWriter, r *http.Request) {
	if !hasPlace(r) {
		fail(w, http.StatusBadRequest, "Provide ?q=location OR ?lat=..&lon=..")
		return
	}
	if r.URL.Query().Get("q") == UnknownPlace {
		fail(w, http.StatusNotFound, "Location not found")
		return
	}
	b.mu.Lock()
	current := b.Current
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, current)
}

func (b *Backend) handleForecast(w http.ResponseWriter, r *http.Request) {
	if !hasPlace(r) {
		fail(w, http.StatusBadRequest, "Provide ?q=location OR ?lat=..&lon=..")
		return
	}
	b.mu.Lock()
	forecast := b.Forecast
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, forecast)
}

func (b *Backend) handleExport(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	list := make([]models.Query, 0, len(b.queries))
	for _, q := range b.queries {
		list = append(list, q)
	}
	b.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	if strings.HasSuffix(r.URL.Path, ".json") {
		writeJSON(w, http.StatusOK, list)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	fmt.Fprintln(w, "query_id,location_name,start_date,end_date,query_date,t_min,t_max,t_mean")
	for _, q := range list {
		for _, o := range q.Observations {
			fmt.Fprintf(w, "%d,%s,%s,%s,%s,%v,%v,%v\n", q.ID, q.LocationName(), q.StartDate, q.EndDate,
				o.Date, *o.TMin, *o.TMax, *o.TMean)
		}
	}
}
