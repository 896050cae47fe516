package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// maxRequestBodySize limits the POST /scan body. A URL never needs more.
const maxRequestBodySize = 8 << 10

// Service is what the HTTP layer needs from a Scanner.
type Service interface {
	Scan(ctx context.Context, rawURL string) ScanVerdict
	LiveLookups() bool
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	LiveLookups bool   `json:"live_lookups"`
}

// Handler serves the scan API for the browser extension.
type Handler struct {
	service       Service
	allowedOrigin string
	logger        *slog.Logger
}

// NewHandler returns the routes for the scan API.
func NewHandler(service Service, allowedOrigin string, logger *slog.Logger) http.Handler {
	h := &Handler{service: service, allowedOrigin: allowedOrigin, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/scan", h.ScanHandler)
	mux.HandleFunc("/healthz", h.HealthHandler)
	return mux
}

// ScanHandler handles POST /scan.
func (h *Handler) ScanHandler(w http.ResponseWriter, r *http.Request) {
	h.setCORS(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Debug("rejected scan request", "error", err)
		sendError(w, "No URL provided", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		sendError(w, "No URL provided", http.StatusBadRequest)
		return
	}

	verdict := h.service.Scan(r.Context(), req.URL)
	writeJSON(w, http.StatusOK, verdict)
}

// HealthHandler handles GET /healthz.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", LiveLookups: h.service.LiveLookups()})
}

// setCORS allows calls from the extension, whose origin is chrome-extension://<id>.
func (h *Handler) setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", h.allowedOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func sendError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
