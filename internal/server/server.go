// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package server implements the HTTP front end of the outfit planner.
package server

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/wneessen/outfit-planner/internal/logger"
	"github.com/wneessen/outfit-planner/internal/planner"
	"github.com/wneessen/outfit-planner/internal/presenter"
	"github.com/wneessen/outfit-planner/internal/weather"
)

// MaxFormSize limits the size of a submitted planning form.
const MaxFormSize = 64 << 10

type Server struct {
	planner   *planner.Planner
	presenter *presenter.Presenter
	log       *logger.Logger
	defaults  presenter.Form
	mux       *http.ServeMux

	// runLock serializes planning runs, so only one fetch and model fit is in
	// flight at any time.
	runLock sync.Mutex
}

// New returns a Server. defaults prefills the form on the index page.
func New(planner *planner.Planner, presenter *presenter.Presenter, defaults presenter.Form,
	log *logger.Logger,
) *Server {
	s := &Server{
		planner:   planner,
		presenter: presenter,
		log:       log,
		defaults:  defaults,
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /forecast", s.handleForecast)
	s.mux.HandleFunc("GET /runs/{id}/{format}", s.handleExport)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, s.presenter.Page(s.defaults))
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxFormSize)
	if err := r.ParseForm(); err != nil {
		s.log.Warn("failed to parse form", logger.Err(err))
		s.render(w, http.StatusBadRequest, s.presenter.Warning(s.defaults, "missing"))
		return
	}
	form := presenter.Form{
		APIKey:   r.PostFormValue("apikey"),
		Location: r.PostFormValue("location"),
	}
	// An unparsable horizon stays 0 and is rejected by the planner
	form.Horizon, _ = strconv.Atoi(r.PostFormValue("horizon"))

	req := planner.Request{APIKey: form.APIKey, Location: form.Location, Horizon: form.Horizon}
	s.runLock.Lock()
	result, err := s.planner.Run(r.Context(), req)
	s.runLock.Unlock()

	var apiErr *weather.APIError
	switch {
	case errors.Is(err, planner.ErrMissingInput):
		s.render(w, http.StatusBadRequest, s.presenter.Warning(form, "missing"))
		return
	case errors.Is(err, planner.ErrInvalidHorizon):
		s.render(w, http.StatusBadRequest, s.presenter.Warning(form, "badhorizon"))
		return
	case errors.As(err, &apiErr):
		s.log.Warn("weather API rejected request", slog.Int("status", apiErr.StatusCode),
			slog.String("message", apiErr.Message), slog.String("location", form.Location),
			logger.Secret("apikey", form.APIKey))
		s.render(w, http.StatusBadGateway, s.presenter.APIError(form, apiErr))
		return
	case err != nil:
		s.log.Error("planning run failed", logger.Err(err), slog.String("location", form.Location))
		s.render(w, http.StatusInternalServerError, s.presenter.Failure(form))
		return
	}

	view, err := s.presenter.Result(form, result)
	if err != nil {
		s.log.Error("failed to prepare result page", logger.Err(err), slog.String("run", result.ID))
		s.render(w, http.StatusInternalServerError, s.presenter.Failure(form))
		return
	}
	s.render(w, http.StatusOK, view)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	result, ok := s.planner.Result(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	format := r.PathValue("format")
	contentType, err := presenter.ContentType(format)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	buf := bytes.NewBuffer(nil)
	if err = presenter.Export(buf, format, result); err != nil {
		s.log.Error("failed to export run", logger.Err(err), slog.String("run", result.ID),
			slog.String("format", format))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+presenter.Filename(result, format)+`"`)
	if _, err = buf.WriteTo(w); err != nil {
		s.log.Error("failed to write export", logger.Err(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("ok\n")); err != nil {
		s.log.Error("failed to write health response", logger.Err(err))
	}
}

// render executes the page template into a buffer first, so template errors still
// result in a clean 500 response.
func (s *Server) render(w http.ResponseWriter, status int, view presenter.PageView) {
	buf := bytes.NewBuffer(nil)
	if err := s.presenter.Render(buf, view); err != nil {
		s.log.Error("failed to render page", logger.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Error("failed to write response", logger.Err(err))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request served", slog.String("method", r.Method), slog.String("path", r.URL.Path),
			slog.Int("status", rec.status), slog.Duration("duration", time.Since(start)))
	})
}
