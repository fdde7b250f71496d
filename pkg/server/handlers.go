package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/shaowenchen/maverick-mcp-server/pkg/metrics"
	"github.com/shaowenchen/maverick-mcp-server/pkg/modules/sites"
)

// CallRequest is the body of POST /mcp/call
type CallRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// CallResponse carries the text segments of a tool result
type CallResponse struct {
	Content []string `json:"content"`
}

// maxCallBodyBytes caps the POST /mcp/call body
const maxCallBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxCallBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}
	if s.sites == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown tool"})
		return
	}

	content, err := s.sites.Call(r.Context(), req.Name, req.Arguments)
	if errors.Is(err, sites.ErrUnknownTool) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown tool"})
		return
	}
	if err != nil {
		s.logger.Error("Tool call failed", zap.String("tool", req.Name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, CallResponse{Content: content})
}

// auth checks the bearer token on the MCP routes when auth is enabled
func (s *Server) auth(next http.Handler) http.Handler {
	if !s.cfg.Auth.Enabled {
		return next
	}
	expected := []byte(s.cfg.Auth.Token)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			metrics.RecordAuthRequest(metrics.AuthMissing, time.Since(start))
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), expected) != 1 {
			metrics.RecordAuthRequest(metrics.AuthFailure, time.Since(start))
			s.logger.Warn("Rejected request with invalid token",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr))
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		metrics.RecordAuthRequest(metrics.AuthSuccess, time.Since(start))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
