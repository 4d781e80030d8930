package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"weather-desk/models"
	"weather-desk/panel"
	"weather-desk/queries"

	"github.com/gorilla/mux"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"
)

// Server serves the page and answers UI actions with region patches
type Server struct {
	queries *queries.Manager
	panel   *panel.Panel
	layout  []string
	logger  *zap.SugaredLogger
	router  *mux.Router
	server  *http.Server
}

// NewServer creates a new UI server. layout lists the regions every document starts with.
func NewServer(qm *queries.Manager, wp *panel.Panel, layout []string, port int, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	router := mux.NewRouter()

	server := &Server{
		queries: qm,
		panel:   wp,
		layout:  layout,
		logger:  logger,
		router:  router,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	router.HandleFunc("/", server.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/queries/{id:[0-9]+}/view", server.handleQueryPage).Methods(http.MethodGet)
	router.HandleFunc("/health", server.handleHealthCheck).Methods(http.MethodGet)

	// Query manager actions
	ui := router.PathPrefix("/ui").Subrouter()
	ui.HandleFunc("/queries", server.handleCreate).Methods(http.MethodPost)
	ui.HandleFunc("/queries", server.handleList).Methods(http.MethodGet)
	ui.HandleFunc("/queries/{id:[0-9]+}/view", server.handleView).Methods(http.MethodGet)
	ui.HandleFunc("/queries/{id:[0-9]+}/edit", server.handleEdit).Methods(http.MethodGet)
	ui.HandleFunc("/queries/{id:[0-9]+}", server.handleUpdate).Methods(http.MethodPost, http.MethodPut)
	ui.HandleFunc("/queries/{id:[0-9]+}/delete", server.handleDelete).Methods(http.MethodPost)
	ui.HandleFunc("/export.{format}", server.handleExport).Methods(http.MethodGet)

	// Weather panel actions
	ui.HandleFunc("/weather/current", server.handleCurrent).Methods(http.MethodGet)
	ui.HandleFunc("/weather/forecast", server.handleForecast).Methods(http.MethodGet)
	ui.HandleFunc("/weather/geo", server.handleGeo).Methods(http.MethodPost)

	return server
}

// Router exposes the handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins the UI server
func (s *Server) Start() error {
	s.logger.Infow("starting UI server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight actions
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func pathID(r *http.Request) int {
	// the route pattern guarantees digits
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

// coordsFrom reads lat/lon query parameters; both must parse
func coordsFrom(r *http.Request) *models.Coordinates {
	lat, errLat := strconv.ParseFloat(r.Form.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.Form.Get("lon"), 64)
	if errLat != nil || errLon != nil {
		return nil
	}
	return &models.Coordinates{Latitude: lat, Longitude: lon}
}

// handleIndex renders the full page with the query list already loaded
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	doc, _ := s.newDocument(r)
	s.queries.LoadQueries(r.Context(), doc)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, newIndexView(doc, s.layout)); err != nil {
		s.logger.Warnw("error rendering index", "error", err)
	}
}

// handleQueryPage is the navigation target after a create without summary regions
func (s *Server) handleQueryPage(w http.ResponseWriter, r *http.Request) {
	doc, _ := s.newDocument(r)
	s.queries.LoadQueries(r.Context(), doc)
	s.queries.ViewQuery(r.Context(), doc, pathID(r))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, newIndexView(doc, s.layout)); err != nil {
		s.logger.Warnw("error rendering query page", "error", err)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	doc, answers := s.newDocument(r)
	s.queries.CreateQuery(r.Context(), doc)
	s.writePatch(w, r, doc, answers)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	doc, answers := s.newDocument(r)
	s.queries.LoadQueries(r.Context(), doc)
	s.writePatch(w, r, doc, answers)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	doc, answers := s.newDocument(r)
	s.queries.ViewQuery(r.Context(), doc, pathID(r))
	s.writePatch(w, r, doc, answers)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	doc, answers := s.newDocument(r)
	s.queries.EditQuery(r.Context(), doc, pathID(r))
	s.writePatch(w, r, doc, answers)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	doc, answers := s.newDocument(r)
	// the edit form rendered these message boxes
	doc.Mount(queries.RegionUpdateMsg)
	doc.Mount(queries.RegionUpdateErr)
	doc.Settle()

	s.queries.UpdateQuery(r.Context(), doc, pathID(r))
	s.writePatch(w, r, doc, answers)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	doc, answers := s.newDocument(r)
	s.queries.DeleteQuery(r.Context(), doc, pathID(r))
	s.writePatch(w, r, doc, answers)
}

// handleExport streams the backend export as a download
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(mux.Vars(r)["format"])
	data, err := s.queries.ExportQueries(r.Context(), format)
	if err != nil {
		if errors.Is(err, queries.ErrBadFormat) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Warnw("export failed", "format", format, "error", err)
		s.writeError(w, http.StatusBadGateway, "export failed")
		return
	}

	contentType := "application/json"
	if format == "csv" {
		contentType = "text/csv"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="export.%s"`, format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	doc, answers := s.newDocument(r)
	s.panel.FetchCurrent(r.Context(), doc, coordsFrom(r))
	s.writePatch(w, r, doc, answers)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	doc, answers := s.newDocument(r)
	s.panel.FetchForecast(r.Context(), doc, coordsFrom(r))
	s.writePatch(w, r, doc, answers)
}

func (s *Server) handleGeo(w http.ResponseWriter, r *http.Request) {
	doc, answers := s.newDocument(r)
	s.panel.UseGeo(r.Context(), doc)
	s.writePatch(w, r, doc, answers)
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
