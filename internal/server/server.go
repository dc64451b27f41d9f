// Package server wires the analysis pipeline and session store to HTTP:
// multipart intake, CORS for the design-tool host, session lookup, and the
// xlsx export. All of it is glue around the pipeline.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kl2321/FYP2025Kath-sub000/internal/config"
	pferrors "github.com/kl2321/FYP2025Kath-sub000/internal/errors"
	"github.com/kl2321/FYP2025Kath-sub000/internal/logger"
	"github.com/kl2321/FYP2025Kath-sub000/internal/pipeline"
	"github.com/kl2321/FYP2025Kath-sub000/internal/report"
	"github.com/kl2321/FYP2025Kath-sub000/internal/store"
	"github.com/kl2321/FYP2025Kath-sub000/internal/transcript"
	"github.com/kl2321/FYP2025Kath-sub000/internal/types"
)

// maxUploadBytes caps the multipart audio intake (100 MiB).
const maxUploadBytes = 100 << 20

type Server struct {
	pipe     *pipeline.Pipeline
	sessions store.Store
	cfg      *config.Config
}

func New(pipe *pipeline.Pipeline, sessions store.Store, cfg *config.Config) *Server {
	return &Server{pipe: pipe, sessions: sessions, cfg: cfg}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/sessions/export", s.handleExport)
	mux.HandleFunc("/sessions/", s.handleSession)
	return s.withCORS(mux)
}

// withCORS answers preflights and stamps the allowed origin; the plugin UI
// runs inside the design tool's sandbox and calls cross-origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "ok")
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "analyze")
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		reqLog.WithError(err).Warn("bad multipart request")
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio file field")
		return
	}
	defer file.Close()
	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable audio upload")
		return
	}
	if len(audio) == 0 {
		writeError(w, http.StatusBadRequest, "empty audio upload")
		return
	}

	meta := pipeline.SessionMeta{
		SessionID:     uuid.New().String(),
		LongRecording: r.FormValue("long") == "true",
		Style:         styleFrom(r.FormValue("style")),
	}
	reqLog = reqLog.WithField("session_id", meta.SessionID)
	reqLog.WithField("audio_bytes", len(audio)).Info("analysis requested")

	now := time.Now().UTC()
	_ = s.sessions.Put(r.Context(), meta.SessionID, types.SessionRecord{
		ID:        meta.SessionID,
		CreatedAt: now,
		Status:    "processing",
	})

	start := time.Now()
	res, err := s.pipe.Run(r.Context(), audio, meta)
	reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).Info("pipeline finished")

	if err != nil {
		reqLog.WithError(err).Warn("pipeline failed")
		_ = s.sessions.Put(r.Context(), meta.SessionID, types.SessionRecord{
			ID:        meta.SessionID,
			CreatedAt: now,
			Status:    "failed",
			Error:     err.Error(),
		})
		writeError(w, statusFor(err), err.Error())
		return
	}

	_ = s.sessions.Put(r.Context(), meta.SessionID, types.SessionRecord{
		ID:        meta.SessionID,
		CreatedAt: now,
		Status:    "completed",
		Result:    res,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": meta.SessionID,
		"result":     res,
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/sessions/")
	exportOne := strings.HasSuffix(id, "/export")
	if exportOne {
		id = strings.TrimSuffix(id, "/export")
	}
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "unknown session path")
		return
	}

	rec, err := s.sessions.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		logger.New().WithRequest(r).WithError(err).Error("session lookup failed")
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}
	if exportOne {
		s.serveWorkbook(w, r, id+".xlsx", []types.SessionRecord{rec})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "export")
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	recs, err := s.sessions.List(r.Context())
	if err != nil {
		reqLog.WithError(err).Error("session list failed")
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}
	s.serveWorkbook(w, r, "sessions.xlsx", recs)
}

func (s *Server) serveWorkbook(w http.ResponseWriter, r *http.Request, filename string, recs []types.SessionRecord) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "export")

	f, err := report.Build(recs)
	if err != nil {
		reqLog.WithError(err).Error("report build failed")
		writeError(w, http.StatusInternalServerError, "report build failed")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		reqLog.WithError(err).Error("report write failed")
	}
}

func styleFrom(v string) transcript.Style {
	if v == "verbose" {
		return transcript.StyleVerbose
	}
	return transcript.StyleCompact
}

// statusFor maps the pipeline error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case pferrors.IsUploadFailed(err), pferrors.IsTranscriptionFailed(err), pferrors.IsSummarizationFailed(err):
		return http.StatusBadGateway
	case pferrors.IsPollTimeout(err):
		return http.StatusGatewayTimeout
	case pferrors.IsCancelled(err):
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
