// Package server exposes the catalog over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ta-nakaxx/terraria-collection-manager/internal/source"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/query"
)

const maxBody = 10 << 20

// Server routes API requests to a Catalog.
type Server struct {
	cat    *catalog.Catalog
	log    *zap.Logger
	router *chi.Mux
}

// New builds the router. A nil logger discards request logs.
func New(cat *catalog.Catalog, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{cat: cat, log: log, router: chi.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(s.log))
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/classify", s.handleClassify)
		r.Get("/classify/explain", s.handleExplain)
		r.Post("/validate", s.handleValidate)

		r.Get("/items", s.handleListItems)
		r.Get("/items/{id}", s.handleGetItem)
		r.Put("/items/{id}/owned", s.handleSetOwned)

		r.Get("/progress", s.handleProgress)
		r.Get("/runs/latest", s.handleLatestRun)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type classifyRequest struct {
	Names []string       `json:"names"`
	Items []item.RawItem `json:"items"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	raws := req.Items
	for _, name := range req.Names {
		raws = append(raws, item.RawItem{ID: item.Slug(name), Name: name})
	}
	if len(raws) == 0 {
		s.writeError(w, r, fmt.Errorf("%w: names or items required", internalerr.ErrInvalidInput))
		return
	}

	items, err := s.cat.ClassifyAll(r.Context(), raws)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		s.writeError(w, r, fmt.Errorf("%w: name is required", internalerr.ErrInvalidInput))
		return
	}
	ex := s.cat.Classifier().Explain(name)
	writeJSON(w, http.StatusOK, map[string]any{
		"explanation": ex,
		"defaulted":   ex.Defaulted(),
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err))
		return
	}
	items, err := source.DecodeItems(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	run, err := s.cat.Validate(r.Context(), "api", items)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	f, o, err := query.Parse(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.cat.Items(r.Context(), f, o)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if items == nil {
		items = []item.Item{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	st := s.cat.Store()
	if st == nil {
		s.writeError(w, r, internalerr.ErrStoreUnavailable)
		return
	}
	id := chi.URLParam(r, "id")
	it, ok, err := st.GetItem(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		s.writeError(w, r, fmt.Errorf("item %q: %w", id, internalerr.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, it)
}

type ownedRequest struct {
	Owned *bool `json:"owned"`
}

func (s *Server) handleSetOwned(w http.ResponseWriter, r *http.Request) {
	st := s.cat.Store()
	if st == nil {
		s.writeError(w, r, internalerr.ErrStoreUnavailable)
		return
	}
	var req ownedRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Owned == nil {
		s.writeError(w, r, fmt.Errorf("%w: owned is required", internalerr.ErrInvalidInput))
		return
	}

	id := chi.URLParam(r, "id")
	if err := st.SetOwned(r.Context(), id, *req.Owned); err != nil {
		s.writeError(w, r, err)
		return
	}
	it, _, err := st.GetItem(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.cat.Progress(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	st := s.cat.Store()
	if st == nil {
		s.writeError(w, r, internalerr.ErrStoreUnavailable)
		return
	}
	run, ok, err := st.LatestRun(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		s.writeError(w, r, fmt.Errorf("run: %w", internalerr.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, internalerr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, internalerr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, internalerr.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// requestLogger logs one line per request once the handler returns.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info("http request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
