package api

import (
	"net/http"
	"strconv"

	"weather-desk/page"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
)

// Patch is the answer to a UI action: the regions it changed plus any dialogs it raised
type Patch struct {
	RequestID string        `json:"request_id"`
	Regions   []page.Change `json:"regions"`
	Alerts    []string      `json:"alerts,omitempty"`
	Confirms  []string      `json:"confirms,omitempty"`
	Navigate  string        `json:"navigate,omitempty"`
}

// inputRegions are the form fields a request may carry into a document
var inputRegions = []string{"loc", "sd", "ed", "q", "editLoc", "editSd", "editEd"}

// requestID reuses the caller's X-Request-ID or mints a new one
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

// newDocument mounts the configured layout and seeds input values from the request form.
// A "confirm=true" form value answers yes to confirmation dialogs.
func (s *Server) newDocument(r *http.Request) (*page.Document, *page.Answers) {
	if err := r.ParseForm(); err != nil {
		s.logger.Warnw("invalid form", "path", r.URL.Path, "error", err)
	}
	confirm, _ := strconv.ParseBool(r.Form.Get("confirm"))
	answers := &page.Answers{ConfirmAll: confirm}

	doc := page.New(answers, s.layout...)
	for _, id := range inputRegions {
		if values, ok := r.Form[id]; ok && len(values) > 0 {
			doc.Mount(id).SetValue(values[0])
		}
	}
	doc.Settle()
	return doc, answers
}

// writePatch encodes the document changes as JSON
func (s *Server) writePatch(w http.ResponseWriter, r *http.Request, doc *page.Document, answers *page.Answers) {
	patch := Patch{
		RequestID: requestID(r),
		Regions:   doc.Changes(),
		Alerts:    doc.Alerts(),
		Navigate:  doc.Navigation(),
	}
	if answers != nil {
		patch.Confirms = answers.Asked
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", patch.RequestID)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(patch); err != nil {
		s.logger.Warnw("error encoding patch", "path", r.URL.Path, "error", err)
	}
}

// writeError answers with a JSON error body
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
