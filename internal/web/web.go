package web

import (
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"calentry/internal/config"
	"calentry/internal/ics"
	appLog "calentry/internal/log"
	"calentry/internal/model"
	"calentry/internal/store"
)

// apiTimeLayout is the floating local date-time form used on the JSON
// boundary, matching the precision stored in events.
const apiTimeLayout = "2006-01-02T15:04:05"

// Server owns the event store for one user session and exposes it over
// HTTP. The store itself is unsynchronized; mu serializes all access so
// that each add/remove/clear/export completes before the next begins.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux

	mu       sync.Mutex
	store    *store.Store
	exporter *ics.Exporter
}

// embeddedStatic contains the single-page entry UI.
//
//go:embed all:static
var embeddedStatic embed.FS

// NewServer constructs a new Server around the given session store.
func NewServer(cfg *config.Config, st *store.Store) *Server {
	s := &Server{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		store:    st,
		exporter: ics.NewExporter(cfg.ProdID),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password is treated as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="CalEntry", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/events", s.handleEvents)
	s.mux.HandleFunc("/api/events/clear", s.handleClear)
	s.mux.HandleFunc("/export.ics", s.handleExport)

	// Embedded entry UI; all non-API paths fall back to this handler.
	s.mux.Handle("/", s.staticFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// eventDTO is a JSON-friendly view of a stored event.
type eventDTO struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Recurrence  string `json:"recurrence"`
	Description string `json:"description"`
}

// eventsResponse is the JSON response shape for GET /api/events.
type eventsResponse struct {
	Events    []eventDTO `json:"events"`
	Page      int        `json:"page"`
	PageSize  int        `json:"page_size"`
	PageCount int        `json:"page_count"`
	Total     int        `json:"total"`
}

// addRequest is the JSON request shape for POST /api/events.
type addRequest struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Recurrence  string `json:"recurrence"`
	Description string `json:"description"`
}

// handleEvents dispatches the collection endpoint:
//
//	GET    /api/events?page=0&page_size=5   paginated listing
//	POST   /api/events                      add one event
//	DELETE /api/events?index=3              positional removal
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listEvents(w, r)
	case http.MethodPost:
		s.addEvent(w, r)
	case http.MethodDelete:
		s.removeEvent(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parseIntDefault(q.Get("page"), 0)
	if page < 0 {
		page = 0
	}
	pageSize := parseIntDefault(q.Get("page_size"), s.cfg.DefaultPageSize)
	if pageSize <= 0 {
		pageSize = s.cfg.DefaultPageSize
	}

	s.mu.Lock()
	events := s.store.Page(page, pageSize)
	pageCount := s.store.PageCount(pageSize)
	total := s.store.Len()
	s.mu.Unlock()

	dtos := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		dtos = append(dtos, eventDTO{
			Start:       ev.Start.Format(apiTimeLayout),
			End:         ev.End.Format(apiTimeLayout),
			Recurrence:  string(ev.Recurrence),
			Description: ev.Description,
		})
	}

	writeJSON(w, http.StatusOK, eventsResponse{
		Events:    dtos,
		Page:      page,
		PageSize:  pageSize,
		PageCount: pageCount,
		Total:     total,
	})
}

func (s *Server) addEvent(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	start, err := time.Parse(apiTimeLayout, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date/time")
		return
	}
	end, err := time.Parse(apiTimeLayout, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date/time")
		return
	}
	recurrence, err := model.ParseRecurrence(req.Recurrence)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	err = s.store.Add(start, end, recurrence, req.Description)
	total := s.store.Len()
	s.mu.Unlock()

	if err != nil {
		// Both validation failures are caller-recoverable: surface the
		// message and let the user retry with corrected input.
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	appLog.Info("event added", "total", total)
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) removeEvent(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid index")
		return
	}

	s.mu.Lock()
	err = s.store.RemoveAt(index)
	s.mu.Unlock()

	var idxErr *store.IndexError
	if errors.As(err, &idxErr) {
		writeError(w, http.StatusNotFound, idxErr.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to remove event")
		return
	}

	appLog.Info("event removed", "index", index)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.mu.Lock()
	s.store.Clear()
	s.mu.Unlock()

	appLog.Info("events cleared")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	doc := s.ExportDocument()

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="events.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// ExportDocument snapshots the current event list as an ICS document.
// Every call is freshly stamped (DTSTAMP, UIDs).
func (s *Server) ExportDocument() string {
	s.mu.Lock()
	events := s.store.Events()
	s.mu.Unlock()
	return s.exporter.Export(events)
}

// ExportToFile writes the current export to path. Used by the
// scheduled export job in cmd/calentry.
func (s *Server) ExportToFile(path string) error {
	doc := s.ExportDocument()
	return os.WriteFile(path, []byte(doc), 0o644)
}

// staticFileServer serves the embedded entry UI from internal/web/static.
func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static UI not available", http.StatusServiceUnavailable)
		})
	}

	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// /api/* never falls through to the static UI; a missing API
		// handler must 404, not return HTML.
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
