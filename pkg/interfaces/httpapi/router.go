// Package httpapi exposes analysis sessions over HTTP. Each logged-in user
// owns one session; runs against the same session are serialized.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/vsinha/stockrecon/pkg/application/dto"
	"github.com/vsinha/stockrecon/pkg/application/services/session"
	"github.com/vsinha/stockrecon/pkg/domain/entities"
	"github.com/vsinha/stockrecon/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/stockrecon/pkg/interfaces/cli/output"
)

type Options struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
}

type Router struct {
	registry *session.Registry
	loader   *csv.Loader
	logger   *zap.Logger
	maxBody  int64
}

func NewRouter(registry *session.Registry, loader *csv.Loader, logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loader == nil {
		loader = csv.NewLoader(csv.DefaultLedgerColumns)
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := &Router{registry: registry, loader: loader, logger: logger, maxBody: opts.MaxBodyBytes}
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(requestLogger(logger))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Route("/v1/sessions", func(rt chi.Router) {
		rt.Post("/", r.wrap(r.handleLogin))
		rt.Route("/{id}", func(rt chi.Router) {
			rt.Delete("/", r.wrap(r.handleLogout))
			rt.Post("/runs", r.wrap(r.handleRun))
			rt.Post("/reset", r.wrap(r.handleReset))
			rt.Get("/stats", r.wrap(r.handleStats))
			rt.Get("/results", r.wrap(r.handleResults))
			rt.Get("/history", r.wrap(r.handleHistory))
			rt.Get("/ledger", r.wrap(r.handleLedger))
			rt.Get("/events", r.wrap(r.handleEvents))
		})
	})

	return mux
}

// badRequest marks errors caused by the client's input
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var br badRequest
			switch {
			case errors.Is(err, session.ErrSessionNotFound):
				http.Error(w, "session not found", http.StatusNotFound)
			case errors.As(err, &br):
				http.Error(w, br.Error(), http.StatusBadRequest)
			default:
				r.logger.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

func (r *Router) decode(w http.ResponseWriter, req *http.Request, v any) error {
	body := req.Body
	if r.maxBody > 0 {
		body = http.MaxBytesReader(w, req.Body, r.maxBody)
	}
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return badRequest{fmt.Errorf("invalid request body: %w", err)}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/sessions
// Body (optional): {"id": "<session id>"}. Logging in again with a live id
// discards that session's ledger, history and audit stream and answers 200
// with "replaced": true; a new session answers 201.
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		ID string `json:"id"`
	}
	if err := r.decode(w, req, &body); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	id, replaced := r.registry.Create(strings.TrimSpace(body.ID))
	status := http.StatusCreated
	if replaced {
		status = http.StatusOK
	}
	return writeJSON(w, status, loginResponse{SessionID: id, Replaced: replaced})
}

type loginResponse struct {
	SessionID string `json:"session_id"`
	Replaced  bool   `json:"replaced"`
}

// DELETE /v1/sessions/{id}
func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) error {
	if err := r.registry.Destroy(chi.URLParam(req, "id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /v1/sessions/{id}/runs
func (r *Router) handleRun(w http.ResponseWriter, req *http.Request) error {
	var body runRequest
	if err := r.decode(w, req, &body); err != nil {
		return err
	}
	in, err := body.tableInput(r.loader)
	if err != nil {
		return badRequest{err}
	}

	var report *dto.Report
	err = r.registry.With(chi.URLParam(req, "id"), func(s *session.Session) error {
		results := s.RunTables(req.Context(), in)
		report = dto.NewReport(s.ID(), results, s.History())
		return nil
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, report)
}

// POST /v1/sessions/{id}/reset
func (r *Router) handleReset(w http.ResponseWriter, req *http.Request) error {
	err := r.registry.With(chi.URLParam(req, "id"), func(s *session.Session) error {
		s.Reset()
		return nil
	})
	if err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/sessions/{id}/events?from=<version>
func (r *Router) handleEvents(w http.ResponseWriter, req *http.Request) error {
	from := 0
	if raw := req.URL.Query().Get("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return badRequest{fmt.Errorf("invalid from version %q", raw)}
		}
		from = v
	}

	stream, err := r.registry.Events(chi.URLParam(req, "id"), from)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, stream)
}

// GET /v1/sessions/{id}/stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	var stats entities.SummaryStats
	err := r.registry.With(chi.URLParam(req, "id"), func(s *session.Session) error {
		stats = s.SummaryStats()
		return nil
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, stats)
}

// GET /v1/sessions/{id}/results?format=json|csv
func (r *Router) handleResults(w http.ResponseWriter, req *http.Request) error {
	var results []entities.AllocationResult
	err := r.registry.With(chi.URLParam(req, "id"), func(s *session.Session) error {
		results = s.LastResults()
		return nil
	})
	if err != nil {
		return err
	}

	switch format := req.URL.Query().Get("format"); format {
	case "", "json":
		return writeJSON(w, http.StatusOK, dto.NewExportRows(results))
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="stock_results.csv"`)
		return output.WriteResultsCSV(w, dto.NewExportRows(results))
	default:
		return badRequest{fmt.Errorf("unsupported format: %s", format)}
	}
}

// GET /v1/sessions/{id}/history
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	var history []entities.AnalysisRun
	err := r.registry.With(chi.URLParam(req, "id"), func(s *session.Session) error {
		history = s.History()
		return nil
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, history)
}

// GET /v1/sessions/{id}/ledger
func (r *Router) handleLedger(w http.ResponseWriter, req *http.Request) error {
	var resp struct {
		Loaded  bool                   `json:"loaded"`
		Entries []entities.LedgerEntry `json:"entries"`
	}
	err := r.registry.With(chi.URLParam(req, "id"), func(s *session.Session) error {
		resp.Loaded = s.HasLedger()
		resp.Entries = s.Ledger()
		return nil
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}
