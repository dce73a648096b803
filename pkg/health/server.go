package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// ServiceInfo contains basic service information.
type ServiceInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
	Description  string   `json:"description"`
}

// StatusGetter reports the scanner's runtime state.
type StatusGetter interface {
	ActiveScans() int
	TotalScans() int64
	Uptime() time.Duration
	ProviderHealth() interface{}
}

// Handler serves the health endpoints. It is mounted on the same mux as the
// scan endpoint.
type Handler struct {
	info   *ServiceInfo
	status StatusGetter
}

// NewHandler creates a health handler for the given service.
func NewHandler(info *ServiceInfo, status StatusGetter) *Handler {
	return &Handler{info: info, status: status}
}

// Register mounts the health endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.healthHandler)
	mux.HandleFunc("/status", h.statusHandler)
	mux.HandleFunc("/info", h.infoHandler)
}

// healthHandler provides a simple liveness check.
func (h *Handler) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"service":   h.info.Name,
		"timestamp": time.Now().UTC(),
	})
}

// statusHandler provides detailed runtime status including per-provider
// health.
func (h *Handler) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       "operational",
		"active_scans": h.status.ActiveScans(),
		"total_scans":  h.status.TotalScans(),
		"uptime":       h.status.Uptime().String(),
		"providers":    h.status.ProviderHealth(),
		"timestamp":    time.Now().UTC(),
		"service":      h.info,
	})
}

// infoHandler provides static service information.
func (h *Handler) infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(h.info)
}
