package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/wcatz/dashboard-grid/internal/board"
	"github.com/wcatz/dashboard-grid/internal/drag"
	"github.com/wcatz/dashboard-grid/internal/generation"
	"github.com/wcatz/dashboard-grid/internal/grid"
	"github.com/wcatz/dashboard-grid/internal/resize"
)

type errorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Status string       `json:"status"`
	Error  errorPayload `json:"error"`
}

type successResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, successResponse{Status: "success", Data: data})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Status: "error",
		Error:  errorPayload{Code: code, Message: message, RequestID: requestIDFromContext(r.Context())},
	})
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := mapDomainError(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeError(w, r, status, code, err.Error())
}

func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, board.ErrUnknownWidget), errors.Is(err, drag.ErrUnknownWidget):
		return http.StatusNotFound, "unknown_widget"
	case errors.Is(err, drag.ErrDragAlreadyActive), errors.Is(err, resize.ErrResizeAlreadyActive):
		return http.StatusConflict, "gesture_active"
	case errors.Is(err, drag.ErrNotDragging), errors.Is(err, resize.ErrNotResizing):
		return http.StatusConflict, "gesture_inactive"
	case errors.Is(err, generation.ErrNotGenerating):
		return http.StatusConflict, "not_generating"
	case errors.Is(err, generation.ErrEmptyPrompt):
		return http.StatusBadRequest, "empty_prompt"
	case errors.Is(err, resize.ErrInvalidDirection):
		return http.StatusBadRequest, "invalid_direction"
	case errors.Is(err, board.ErrInvalidOrder):
		return http.StatusBadRequest, "invalid_order"
	case errors.Is(err, grid.ErrInvalidPosition):
		return http.StatusBadRequest, "invalid_position"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
