package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.accessLog)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ok") })

	r.Route("/api", func(r chi.Router) {
		r.Get("/board", s.handleBoard)
		r.Delete("/board", s.handleClear)
		r.Post("/generate", s.handleGenerate)

		r.Post("/drag/begin", s.handleDragBegin)
		r.Post("/drag/drop", s.handleDragDrop)
		r.Post("/drag/end", s.handleDragEnd)

		r.Post("/resize/begin", s.handleResizeBegin)
		r.Post("/resize/move", s.handleResizeMove)
		r.Post("/resize/end", s.handleResizeEnd)

		r.Post("/layout/reorder", s.handleReorder)
		r.Delete("/widgets/{id}", s.handleRemoveWidget)
		r.Post("/config/validate", s.handleConfigValidate)
	})
	return r
}
