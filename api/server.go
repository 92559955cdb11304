// Package api is the HTTP surface of the calculator.
// Handlers decode requests, call the engine and serialize results. They hold no billing logic.
package api

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"phone-bill/core/engine"
	"phone-bill/core/input"
	"phone-bill/core/receipt"
	"phone-bill/internal/errors"
	"phone-bill/internal/logging"
	"phone-bill/internal/metrics"
)

// RequestIDHeader carries the per-request id
const RequestIDHeader = "X-Request-ID"

// Options configures the server
type Options struct {
	// Version is reported by /health and /version
	Version string

	// MaxBodyBytes bounds request bodies; <= 0 means 1 MiB
	MaxBodyBytes int64

	// Gatherer backs /metrics; nil disables the route
	Gatherer prometheus.Gatherer
}

// Server is the API server
type Server struct {
	engine  *engine.Engine
	mux     *http.ServeMux
	version string
	maxBody int64
}

// NewServer creates a new API server
func NewServer(e *engine.Engine, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}

	s := &Server{
		engine:  e,
		mux:     http.NewServeMux(),
		version: opts.Version,
		maxBody: opts.MaxBodyBytes,
	}

	s.registerRoutes(opts.Gatherer)
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes(g prometheus.Gatherer) {
	s.mux.HandleFunc("POST /calculate", s.handleCalculate)
	s.mux.HandleFunc("POST /receipt", s.handleReceipt)
	s.mux.HandleFunc("GET /plans", s.handlePlans)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)

	if g != nil {
		s.mux.Handle("GET /metrics", metrics.Handler(g))
	}
}

// handleCalculate handles POST /calculate
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.engine.Calculate(r.Context(), engine.CalculateRequest{
		Minutes: string(req.Minutes),
		Plan:    req.Plan,
	})
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	s.writeJSON(w, toCalculateResponse(result, s.engine.Currency()), http.StatusOK)
}

// handleReceipt handles POST /receipt. The document is returned as an
// attachment and never stored on the server.
func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	var req ReceiptRequest
	if !s.decode(w, r, &req) {
		return
	}

	calc, err := s.engine.Calculate(r.Context(), engine.CalculateRequest{
		Minutes: string(req.Minutes),
		Plan:    req.Plan,
	})
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	var buf bytes.Buffer
	rec, name, format, err := s.engine.RenderReceipt(r.Context(), engine.ReceiptRequest{
		Calculation: calc,
		Payer:       input.PayerDetails{Name: req.Name, Address: req.Address},
		Format:      req.Format,
	}, &buf)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Receipt-Number", strconv.FormatInt(rec.Number, 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handlePlans handles GET /plans
func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	plans := s.engine.Catalog().Plans()
	resp := PlansResponse{
		Plans:    make([]PlanResponse, 0, len(plans)),
		Currency: s.engine.Currency(),
	}
	for _, p := range plans {
		resp.Plans = append(resp.Plans, toPlanResponse(p))
	}
	s.writeJSON(w, resp, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "phone-bill",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		// Server fault details stay in the log
		logging.ForRequest(w.Header().Get(RequestIDHeader), r.Method, r.URL.Path).
			Error("request failed", zap.Error(err))
		s.writeError(w, string(errors.TypeInternal), "the receipt service is misconfigured or unavailable", status)
		return
	}
	s.writeError(w, string(errors.TypeOf(err)), errors.Message(err), status)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, ErrorResponse{Error: ErrorBody{Code: code, Message: message}}, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = generateRequestID()
	}
	w.Header().Set(RequestIDHeader, requestID)

	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(sw, r)

	logging.ForRequest(requestID, r.Method, r.URL.Path).Debug("request handled",
		zap.Int("status", sw.status),
		zap.Duration("duration", time.Since(start)),
	)
}

// ListenAndServe starts the server
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// statusFor maps an engine error to a status. Only user input yields 4xx;
// a missing template or font is a server fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, input.ErrUnknownPlan):
		return http.StatusNotFound
	case errors.IsType(err, errors.TypeInput), errors.IsType(err, errors.TypeNotSupported):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func contentType(f receipt.Format) string {
	switch f {
	case receipt.FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case receipt.FormatPDF:
		return "application/pdf"
	case receipt.FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

func generateRequestID() string {
	return uuid.New().String()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
