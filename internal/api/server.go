// Package api exposes the monitoring HTTP surface: the latest pipeline
// record, recent history, short accel/temp histories, Prometheus metrics, and
// a websocket push of one record per drain cycle.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/banshee-data/motor.report/internal/db"
	"github.com/banshee-data/motor.report/internal/motor"
	"github.com/banshee-data/motor.report/internal/version"
)

// historySize bounds the in-memory accel/temp history served by the API.
const historySize = 120

type Server struct {
	db  *db.DB
	hub *Hub

	mu      sync.RWMutex
	latest  *motor.Record
	history []AccelPoint
}

// AccelPoint is one per-cycle vibration and temperature reading.
type AccelPoint struct {
	Time time.Time `json:"time"`
	Ax   float64   `json:"ax"`
	Ay   float64   `json:"ay"`
	Az   float64   `json:"az"`
	Temp float64   `json:"temp"`
}

// NewServer creates the API server. The db may be nil when persistence is
// disabled; history endpoints then serve 404.
func NewServer(database *db.DB) *Server {
	return &Server{
		db:  database,
		hub: NewHub(),
	}
}

// Publish records the newest cycle output and pushes it to websocket
// clients. Called by the coordinator's sink, once per drain cycle.
func (s *Server) Publish(rec motor.Record) {
	s.mu.Lock()
	s.latest = &rec
	s.history = append(s.history, AccelPoint{
		Time: rec.Time,
		Ax:   rec.Ax, Ay: rec.Ay, Az: rec.Az,
		Temp: rec.Temp,
	})
	if len(s.history) > historySize {
		s.history = s.history[len(s.history)-historySize:]
	}
	s.mu.Unlock()
	s.hub.Broadcast(rec)
}

// Hub returns the websocket hub so the caller can run it.
func (s *Server) WebsocketHub() *Hub { return s.hub }

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/motor/latest", s.showLatest)
	mux.HandleFunc("/api/motor/records", s.listRecords)
	mux.HandleFunc("/api/motor/accel", s.showAccel)
	mux.HandleFunc("/healthz", s.healthz)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws", s.hub.HandleWebsocket)
	return mux
}

func (s *Server) showLatest(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()
	if latest == nil {
		http.Error(w, "no records yet", http.StatusNotFound)
		return
	}
	writeJSON(w, latest)
}

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.Error(w, "persistence disabled", http.StatusNotFound)
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 10000 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	if v := r.URL.Query().Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid since timestamp", http.StatusBadRequest)
			return
		}
		records, err := s.db.RecordsSince(since)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, records)
		return
	}

	records, err := s.db.RecentRecords(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}

func (s *Server) showAccel(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	history := make([]AccelPoint, len(s.history))
	copy(history, s.history)
	s.mu.RUnlock()
	writeJSON(w, history)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status":  "ok",
		"version": version.Version,
		"git_sha": version.GitSHA,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: failed to encode response: %v", err)
	}
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf("[%d] %s %s %vms",
			lrw.statusCode, r.Method, r.RequestURI,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
