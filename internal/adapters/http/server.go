// Package http exposes the vellum service as a JSON API: template CRUD,
// auxiliary file management and the render endpoint.
package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/vellum"
	"github.com/aretw0/vellum/pkg/domain"
	"github.com/aretw0/vellum/pkg/schema"
)

// Server holds the handler dependencies.
type Server struct {
	svc    *vellum.Service
	logger *slog.Logger
}

// NewHandler builds the HTTP routing for the service. The metrics
// handler (e.g. promhttp) is mounted at /metrics when non-nil.
func NewHandler(svc *vellum.Service, logger *slog.Logger, metrics http.Handler) http.Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(permissiveCORS)

	r.Get("/health", s.health)
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	r.Route("/templates", func(r chi.Router) {
		r.Get("/", s.listTemplates)
		r.Post("/", s.createTemplate)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getTemplate)
			r.Put("/", s.updateTemplate)
			r.Delete("/", s.deleteTemplate)
			r.Post("/render", s.renderTemplate)

			r.Get("/files", s.listTemplateFiles)
			r.Get("/files/*", s.getTemplateFile)
			r.Put("/files/*", s.saveTemplateFile)
			r.Delete("/files/*", s.deleteTemplateFile)
		})
	})

	return r
}

type createTemplateRequest struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Source      string        `json:"source"`
	Schema      schema.Schema `json:"schema"`
	Description string        `json:"description,omitempty"`
}

type renderOptionsRequest struct {
	PaperSize *string `json:"paper_size,omitempty"`
	Compress  *bool   `json:"compress,omitempty"`
}

type renderRequest struct {
	Data    map[string]any        `json:"data"`
	Options *renderOptionsRequest `json:"options,omitempty"`
}

type renderResponse struct {
	PDFBase64   *string             `json:"pdf_base64"`
	Diagnostics []domain.Diagnostic `json:"diagnostics"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.svc.ListTemplates(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, templates)
}

func (s *Server) createTemplate(w http.ResponseWriter, r *http.Request) {
	var body createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.ID == "" {
		s.writeErrorStatus(w, http.StatusBadRequest, "template id is required")
		return
	}
	if err := body.Schema.Check(); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	tmpl, err := s.svc.CreateTemplate(r.Context(),
		domain.TemplateID(body.ID), body.Name, body.Source, body.Schema, body.Description)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, tmpl)
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.svc.GetTemplate(r.Context(), templateID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tmpl)
}

func (s *Server) updateTemplate(w http.ResponseWriter, r *http.Request) {
	var update domain.TemplateUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if update.Schema != nil {
		if err := update.Schema.Check(); err != nil {
			s.writeErrorStatus(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	tmpl, err := s.svc.UpdateTemplate(r.Context(), templateID(r), update)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tmpl)
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTemplate(r.Context(), templateID(r)); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) renderTemplate(w http.ResponseWriter, r *http.Request) {
	var body renderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opts := domain.DefaultRenderOptions()
	if body.Options != nil {
		if body.Options.PaperSize != nil {
			opts.PaperSize = *body.Options.PaperSize
		}
		if body.Options.Compress != nil {
			opts.Compress = *body.Options.Compress
		}
	}

	result, err := s.svc.Render(r.Context(), templateID(r), body.Data, &opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := renderResponse{Diagnostics: result.Diagnostics}
	if result.OK() {
		encoded := base64.StdEncoding.EncodeToString(result.PDF)
		resp.PDFBase64 = &encoded
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listTemplateFiles(w http.ResponseWriter, r *http.Request) {
	paths, err := s.svc.ListTemplateFiles(r.Context(), templateID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, paths)
}

func (s *Server) getTemplateFile(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.GetTemplateFile(r.Context(), templateID(r), filePath(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) saveTemplateFile(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := s.svc.SaveTemplateFile(r.Context(), templateID(r), filePath(r), data); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteTemplateFile(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTemplateFile(r.Context(), templateID(r), filePath(r)); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func templateID(r *http.Request) domain.TemplateID {
	return domain.TemplateID(chi.URLParam(r, "id"))
}

func filePath(r *http.Request) string {
	return chi.URLParam(r, "*")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

// writeError maps service errors onto HTTP statuses: schema validation
// failures are the caller's fault (400), unknown templates/files are
// 404, everything else is a pipeline failure (500).
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var aggr *schema.AggregateError
	var single *schema.ValidationError

	switch {
	case errors.As(err, &aggr), errors.As(err, &single):
		s.writeErrorStatus(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrTemplateNotFound), errors.Is(err, domain.ErrFileNotFound):
		s.writeErrorStatus(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("request failed", "err", err)
		s.writeErrorStatus(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
