package docs

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Handler handles documentation requests
type Handler struct {
	collector *Collector
	logger    *zap.Logger
}

// NewHandler creates a new docs handler
func NewHandler(collector *Collector, logger *zap.Logger) *Handler {
	return &Handler{
		collector: collector,
		logger:    logger,
	}
}

// HandleDocs serves the tool documentation as JSON, or as YAML with ?format=yaml
func (h *Handler) HandleDocs(w http.ResponseWriter, r *http.Request) {
	toolsInfo := h.collector.CollectToolsInfo()

	if r.URL.Query().Get("format") == "yaml" {
		out, err := yaml.Marshal(toolsInfo)
		if err != nil {
			h.logger.Error("Failed to encode tools info as yaml", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out)
		return
	}

	out, err := json.Marshal(toolsInfo)
	if err != nil {
		h.logger.Error("Failed to encode tools info", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
