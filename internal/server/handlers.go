package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wcatz/dashboard-grid/internal/board"
	"github.com/wcatz/dashboard-grid/internal/config"
	"github.com/wcatz/dashboard-grid/internal/drag"
	"github.com/wcatz/dashboard-grid/internal/resize"
)

// maxConfigBytes bounds the body of a config validation request.
const maxConfigBytes = 1 << 20

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Attempt uint64         `json:"attempt"`
	Board   board.Snapshot `json:"board"`
}

type widgetRequest struct {
	WidgetID string `json:"widget_id"`
}

type dropRequest struct {
	Payload     widgetRequest `json:"payload"`
	TargetIndex int           `json:"target_index"`
}

type dropResponse struct {
	Applied bool           `json:"applied"`
	Board   board.Snapshot `json:"board"`
}

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type resizeBeginRequest struct {
	WidgetID  string  `json:"widget_id"`
	Direction string  `json:"direction"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

type resizeEndResponse struct {
	Result resize.Result  `json:"result"`
	Board  board.Snapshot `json:"board"`
}

type reorderRequest struct {
	Order []string `json:"order"`
}

type configStatus struct {
	Valid     bool     `json:"valid"`
	Templates []string `json:"templates"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, s.board.Snapshot())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.board.Clear()
	writeSuccess(w, http.StatusOK, s.board.Snapshot())
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	attempt, err := s.board.Generate(s.ctx, req.Prompt)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusAccepted, generateResponse{Attempt: attempt, Board: s.board.Snapshot()})
}

func (s *Server) handleDragBegin(w http.ResponseWriter, r *http.Request) {
	var req widgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := s.board.BeginDrag(strings.TrimSpace(req.WidgetID))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, sess)
}

func (s *Server) handleDragDrop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	applied := s.board.Drop(drag.Payload{WidgetID: strings.TrimSpace(req.Payload.WidgetID)}, req.TargetIndex)
	writeSuccess(w, http.StatusOK, dropResponse{Applied: applied, Board: s.board.Snapshot()})
}

func (s *Server) handleDragEnd(w http.ResponseWriter, r *http.Request) {
	sess, err := s.board.EndDrag()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, sess)
}

func (s *Server) handleResizeBegin(w http.ResponseWriter, r *http.Request) {
	var req resizeBeginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	dir, err := resize.ParseDirection(req.Direction)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	sess, err := s.board.BeginResize(strings.TrimSpace(req.WidgetID), dir, resize.Point{X: req.X, Y: req.Y})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, sess)
}

func (s *Server) handleResizeMove(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	preview, err := s.board.MoveResize(resize.Point{X: req.X, Y: req.Y})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, preview)
}

func (s *Server) handleResizeEnd(w http.ResponseWriter, r *http.Request) {
	res, err := s.board.EndResize()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, resizeEndResponse{Result: res, Board: s.board.Snapshot()})
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.board.Reorder(req.Order); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, s.board.Snapshot())
}

func (s *Server) handleRemoveWidget(w http.ResponseWriter, r *http.Request) {
	if err := s.board.RemoveWidget(chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, s.board.Snapshot())
}

// handleConfigValidate checks a YAML config document without applying it.
func (s *Server) handleConfigValidate(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxConfigBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		writeError(w, r, http.StatusBadRequest, "empty_config", "empty content")
		return
	}
	cfg, err := config.LoadFromBytes(data)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_config", err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, configStatus{Valid: true, Templates: cfg.GetTemplateOrder()})
}
