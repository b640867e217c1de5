package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const writeWait = 5 * time.Second

// Source produces snapshots for the dashboard. *Client is the production
// implementation.
type Source interface {
	Snapshot(ctx context.Context) (metrics.Snapshot, error)
	Health(ctx context.Context) error
}

type message struct {
	Type      string           `json:"type"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Data      metrics.Snapshot `json:"data"`
}

// Server renders the dashboard from the last snapshot it fetched
// successfully. A failed refresh is logged and leaves that snapshot in place.
type Server struct {
	mux    *http.ServeMux
	tmpl   *template.Template
	source Source

	mu        sync.RWMutex
	snap      metrics.Snapshot
	loaded    bool
	updatedAt time.Time
	lastErr   error

	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan message
}

func New(source Source) *Server {
	funcMap := template.FuncMap{
		"toJSON":   toJSON,
		"tons":     metrics.FormatTons,
		"currency": metrics.FormatCurrency,
		"percent":  metrics.FormatPercent,
		"number":   metrics.FormatNumber,
		"float":    metrics.FormatFloat,
		"label":    metrics.SourceLabel,
		"inc":      func(i int) int { return i + 1 },
		"share": func(v, max float64) float64 {
			if max <= 0 {
				return 0
			}
			return v / max * 100
		},
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return "never"
			}
			return t.Format("2006-01-02 15:04:05")
		},
	}

	tmpl := template.Must(template.New("base").Funcs(funcMap).ParseFS(templateFS, "templates/*.html"))

	s := &Server{
		mux:       http.NewServeMux(),
		tmpl:      tmpl,
		source:    source,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan message, 16),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/api/snapshot", s.handleAPISnapshot)
	s.mux.HandleFunc("/companies", s.handleCompanies)
	s.mux.HandleFunc("/emissions", s.handleEmissions)
	s.mux.HandleFunc("/trees", s.handleTrees)
	s.mux.HandleFunc("/", s.handleOverview)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run refreshes immediately and then every interval, pushing each new
// snapshot to websocket clients, until ctx is done.
func (s *Server) Run(ctx context.Context, interval time.Duration) {
	go s.handleBroadcast(ctx)

	_ = s.Refresh(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Refresh(ctx)
		}
	}
}

// Refresh fetches a new snapshot. On failure the previous snapshot is kept.
func (s *Server) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		log.Warn().Err(err).Msg("snapshot refresh failed, keeping previous data")
		return err
	}

	now := time.Now()
	s.mu.Lock()
	s.snap, s.loaded, s.updatedAt, s.lastErr = snap, true, now, nil
	s.mu.Unlock()
	log.Debug().Int("companies", snap.CompanyCount).Msg("snapshot refreshed")

	select {
	case s.broadcast <- message{Type: "update", UpdatedAt: now, Data: snap}:
	default:
		log.Warn().Msg("broadcast queue full, dropping update")
	}
	return nil
}

// current returns the cached snapshot, loading it once if nothing has been
// fetched yet.
func (s *Server) current(ctx context.Context) (metrics.Snapshot, time.Time, bool) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if !loaded {
		_ = s.Refresh(ctx)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.updatedAt, s.lastErr != nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	snap, updatedAt, _ := s.current(r.Context())

	s.clientsMu.Lock()
	s.clients[conn] = true
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = conn.WriteJSON(message{Type: "init", UpdatedAt: updatedAt, Data: snap})
	s.clientsMu.Unlock()

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
		conn.Close()
	}()
	if err != nil {
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) handleBroadcast(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.broadcast:
			s.clientsMu.Lock()
			for conn := range s.clients {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(msg); err != nil {
					conn.Close()
					delete(s.clients, conn)
				}
			}
			s.clientsMu.Unlock()
		}
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "online"
	if err := s.source.Health(ctx); err != nil {
		status = "offline"
	}

	s.mu.RLock()
	updatedAt := s.updatedAt
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]any{"status": status, "updatedAt": updatedAt})
}

func (s *Server) handleAPISnapshot(w http.ResponseWriter, r *http.Request) {
	snap, updatedAt, stale := s.current(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"updatedAt": updatedAt,
		"stale":     stale,
		"snapshot":  snap,
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	snap, updatedAt, stale := s.current(r.Context())
	s.render(w, "overview.html", map[string]any{
		"Title":     "Carbon Emissions Overview",
		"Active":    "overview",
		"Snapshot":  snap,
		"UpdatedAt": updatedAt,
		"Stale":     stale,
	})
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	snap, updatedAt, stale := s.current(r.Context())
	s.render(w, "companies.html", map[string]any{
		"Title":     "Companies",
		"Active":    "companies",
		"Snapshot":  snap,
		"UpdatedAt": updatedAt,
		"Stale":     stale,
	})
}

func (s *Server) handleEmissions(w http.ResponseWriter, r *http.Request) {
	snap, updatedAt, stale := s.current(r.Context())

	id := r.URL.Query().Get("company")
	var selected *metrics.CompanyMetrics
	for i := range snap.Companies {
		if id == "" || snap.Companies[i].ID == id {
			selected = &snap.Companies[i]
			break
		}
	}
	if id != "" && selected == nil {
		http.NotFound(w, r)
		return
	}

	var maxMonth float64
	if selected != nil {
		for _, m := range selected.Monthly {
			if m.Emissions > maxMonth {
				maxMonth = m.Emissions
			}
		}
	}

	s.render(w, "emissions.html", map[string]any{
		"Title":     "Emissions by Company",
		"Active":    "emissions",
		"Snapshot":  snap,
		"Selected":  selected,
		"MaxMonth":  maxMonth,
		"UpdatedAt": updatedAt,
		"Stale":     stale,
	})
}

func (s *Server) handleTrees(w http.ResponseWriter, r *http.Request) {
	snap, updatedAt, stale := s.current(r.Context())

	tons := snap.TotalEmissions
	if v := r.URL.Query().Get("tons"); v != "" {
		parsed, err := metrics.ParseTons(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		tons = parsed
	}

	s.render(w, "trees.html", map[string]any{
		"Title":     "Trees to Offset",
		"Active":    "trees",
		"Offset":    metrics.OffsetFor(tons),
		"Snapshot":  snap,
		"UpdatedAt": updatedAt,
		"Stale":     stale,
	})
}

func toJSON(v any) template.JS {
	b, _ := json.Marshal(v)
	return template.JS(b)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response failed")
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
