// Package api provides REST API endpoints for decoding reports and
// querying per-station weather state.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wx_decoder/internal/decoder"
	"wx_decoder/internal/observability"
	"wx_decoder/internal/report"
	"wx_decoder/internal/state"
	"wx_decoder/internal/stations"
)

// Server provides REST API access to the decoder and the station state
// tracker.
type Server struct {
	tracker     *state.Tracker
	metrics     *observability.Metrics
	port        int
	authEnabled bool
	apiKeys     map[string]bool // Simple API key auth (when enabled).
}

// Config holds configuration for the API server.
type Config struct {
	Port        int
	AuthEnabled bool
	APIKeys     []string // List of valid API keys.
}

// NewServer creates a new API server. The tracker may be nil when the
// server runs decode-only; station state endpoints then return 503.
func NewServer(tracker *state.Tracker, metrics *observability.Metrics, cfg Config) *Server {
	keys := make(map[string]bool)
	for _, k := range cfg.APIKeys {
		if k != "" {
			keys[k] = true
		}
	}

	return &Server{
		tracker:     tracker,
		metrics:     metrics,
		port:        cfg.Port,
		authEnabled: cfg.AuthEnabled,
		apiKeys:     keys,
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	r := chi.NewRouter()

	// Standard middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS for browser access.
	r.Use(corsMiddleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", s.handleHealth)

	// API routes.
	r.Mount("/api/v1", s.Router())

	addr := ":" + strconv.Itoa(s.port)
	log.Printf("Weather API starting at http://localhost%s", addr)
	if s.authEnabled {
		log.Printf("Authentication: ENABLED (API key required)")
	} else {
		log.Printf("Authentication: DISABLED (open access)")
	}

	return http.ListenAndServe(addr, r)
}

// Router returns the configured chi router for embedding in other servers.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	// Optional authentication.
	if s.authEnabled {
		r.Use(s.authMiddleware)
	}

	r.Get("/health", s.handleHealth)
	r.Post("/decode", s.handleDecode)
	r.Post("/decode/batch", s.handleBatchDecode)
	r.Get("/stations", s.handleListStations)
	r.Get("/stations/{icao}", s.handleGetStation)
	r.Get("/stations/{icao}/latest", s.handleGetLatest)

	return r
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authMiddleware validates API key authentication.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check X-API-Key header first.
		apiKey := r.Header.Get("X-API-Key")

		// Fall back to Authorization: Bearer <key>.
		if apiKey == "" {
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				apiKey = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		// Fall back to query parameter (for simple testing).
		if apiKey == "" {
			apiKey = r.URL.Query().Get("api_key")
		}

		if apiKey == "" {
			writeError(w, http.StatusUnauthorized, "API key required")
			return
		}

		if !s.apiKeys[apiKey] {
			writeError(w, http.StatusForbidden, "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// DecodeRequest is the request body for a single decode.
type DecodeRequest struct {
	Report string `json:"report"`
}

// DecodeResponse wraps a decoded report with its warnings.
type DecodeResponse struct {
	Kind     string           `json:"kind"`
	Station  string           `json:"station"`
	Report   report.Report    `json:"report"`
	Warnings []report.Warning `json:"warnings,omitempty"`
}

func decodeToResponse(decoded report.Report) DecodeResponse {
	return DecodeResponse{
		Kind:     decoded.Kind(),
		Station:  decoded.StationID(),
		Report:   decoded,
		Warnings: report.WarningsOf(decoded),
	}
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Report) == "" {
		writeError(w, http.StatusBadRequest, "report is required")
		return
	}

	decoded, err := decoder.Decode(req.Report)
	if s.metrics != nil {
		kind := ""
		warnings := 0
		if decoded != nil {
			kind = decoded.Kind()
			warnings = len(report.WarningsOf(decoded))
		}
		s.metrics.ObserveDecode(kind, warnings, err)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, decodeToResponse(decoded))
}

// BatchRequest is the request body for batch decodes.
type BatchRequest struct {
	Reports []string `json:"reports"`
}

// BatchResponse is the response for batch decodes. Results and Errors
// are indexed by position in the request.
type BatchResponse struct {
	Results map[int]DecodeResponse `json:"results"`
	Errors  map[int]string         `json:"errors,omitempty"`
}

func (s *Server) handleBatchDecode(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if len(req.Reports) == 0 {
		writeError(w, http.StatusBadRequest, "No reports specified")
		return
	}

	if len(req.Reports) > 100 {
		writeError(w, http.StatusBadRequest, "Maximum 100 reports per batch request")
		return
	}

	resp := BatchResponse{
		Results: make(map[int]DecodeResponse),
		Errors:  make(map[int]string),
	}

	for i, raw := range req.Reports {
		if strings.TrimSpace(raw) == "" {
			resp.Errors[i] = "empty report"
			continue
		}
		decoded, err := decoder.Decode(raw)
		if s.metrics != nil {
			kind := ""
			warnings := 0
			if decoded != nil {
				kind = decoded.Kind()
				warnings = len(report.WarningsOf(decoded))
			}
			s.metrics.ObserveDecode(kind, warnings, err)
		}
		if err != nil {
			resp.Errors[i] = err.Error()
			continue
		}
		resp.Results[i] = decodeToResponse(decoded)
	}

	// Remove empty errors map for cleaner output.
	if len(resp.Errors) == 0 {
		resp.Errors = nil
	}

	writeJSON(w, http.StatusOK, resp)
}

// StationResponse is the JSON response for station lookups.
type StationResponse struct {
	ICAO    string `json:"icao"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
	Tracked bool   `json:"tracked"`
}

func (s *Server) handleGetStation(w http.ResponseWriter, r *http.Request) {
	icao := strings.ToUpper(chi.URLParam(r, "icao"))
	if icao == "" {
		writeError(w, http.StatusBadRequest, "icao is required")
		return
	}
	if !stations.Valid(icao) {
		writeError(w, http.StatusBadRequest, "Invalid ICAO station identifier")
		return
	}

	resp := StationResponse{ICAO: icao}
	if info, ok := stations.Lookup(icao); ok {
		resp.Region = info.Region
		resp.Country = info.Country
	}
	if s.tracker != nil && s.tracker.Latest(icao) != nil {
		resp.Tracked = true
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLatest(w http.ResponseWriter, r *http.Request) {
	if s.tracker == nil {
		writeError(w, http.StatusServiceUnavailable, "Station state tracking is not enabled")
		return
	}

	icao := strings.ToUpper(chi.URLParam(r, "icao"))
	if icao == "" {
		writeError(w, http.StatusBadRequest, "icao is required")
		return
	}

	latest := s.tracker.Latest(icao)
	if latest == nil {
		writeError(w, http.StatusNotFound, "No reports seen for station")
		return
	}

	writeJSON(w, http.StatusOK, latest)
}

func (s *Server) handleListStations(w http.ResponseWriter, r *http.Request) {
	if s.tracker == nil {
		writeError(w, http.StatusServiceUnavailable, "Station state tracking is not enabled")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stations": s.tracker.Stations(),
		"stats":    s.tracker.GetStats(),
	})
}

// Helper functions.

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
