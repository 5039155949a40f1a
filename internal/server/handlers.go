package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hyperjump/wordify/internal/config"
	"github.com/hyperjump/wordify/internal/extract"
	"github.com/hyperjump/wordify/internal/models"
	"github.com/hyperjump/wordify/internal/storage"
	"github.com/hyperjump/wordify/internal/wordify"
)

const defaultSource = "api"

// decode reads a JSON body into dst and runs struct validation on it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body too large")
		}
		return fmt.Errorf("invalid request body")
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: failed %q", strings.ToLower(fe.Field()), fe.Tag())
		}
		return err
	}
	return nil
}

// convertValue turns a raw JSON value into converter input: strings are
// passed as literals, numbers as json.Number so large integers stay exact.
func convertValue(raw json.RawMessage) (input string, value any) {
	trimmed := bytes.TrimSpace(raw)
	var str string
	if err := json.Unmarshal(trimmed, &str); err == nil {
		return str, str
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(trimmed), nil
	}
	return string(trimmed), v
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req models.ConvertRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	input, value := convertValue(req.Value)
	words, err := wordify.Words(value, s.convert...)
	resp := models.ConvertResponse{Input: input, Words: words, Valid: err == nil}
	if err != nil {
		resp.Words = wordify.Invalid
		resp.Error = err.Error()
	}
	if s.metrics != nil {
		s.metrics.Conversion(resp.Valid)
	}
	s.logger.Debug("convert request", zap.String("input", input), zap.Bool("valid", resp.Valid))
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req models.ExtractRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	candidates := []string{}
	err := extract.Lines(strings.NewReader(req.Text), extract.DefaultEncoding, func(_ int, line string) error {
		candidates = append(candidates, extract.Numbers(line)...)
		return nil
	})
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.metrics != nil {
		s.metrics.Candidates(len(candidates))
	}
	s.respondJSON(w, http.StatusOK, models.ExtractResponse{Candidates: candidates})
}

func (s *Server) handleWordify(w http.ResponseWriter, r *http.Request) {
	var req models.WordifyRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	source := req.Source
	if source == "" {
		source = defaultSource
	}
	convs, err := s.scanner.ScanText(r.Context(), source, req.Text)
	if err != nil {
		s.logger.Error("wordify failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, models.WordifyResponse{Conversions: convs})
}

func (s *Server) handleListConversions(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		s.respondError(w, http.StatusNotImplemented, "history not enabled")
		return
	}
	var q models.ListQuery
	var err error
	if v := r.URL.Query().Get("offset"); v != "" {
		if q.Offset, err = strconv.Atoi(v); err != nil {
			s.respondError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if q.Limit, err = strconv.Atoi(v); err != nil {
			s.respondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
	}
	if err := q.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()
	convs, err := s.storage.ListConversions(ctx, q.Offset, q.Limit)
	if err != nil {
		s.logger.Error("list conversions failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.storage.CountConversions(ctx)
	if err != nil {
		s.logger.Error("count conversions failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if convs == nil {
		convs = []*models.Conversion{}
	}
	s.respondJSON(w, http.StatusOK, models.ListResponse{
		Conversions: convs,
		Total:       int(total),
		Offset:      q.Offset,
		Limit:       q.Limit,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := &models.Status{Database: s.config.Storage.DatabasePath}
	if s.watch != nil {
		status.Watching = s.watch.Directories()
	}
	if s.storage != nil {
		ctx := r.Context()
		var err error
		if status.Conversions, err = s.storage.CountConversions(ctx); err != nil {
			s.logger.Error("status: count conversions failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if status.Sources, err = s.storage.CountSources(ctx); err != nil {
			s.logger.Error("status: count sources failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if status.DiskBytes, err = storage.DiskUsageBytes(s.config.Storage.DatabasePath); err != nil {
			s.logger.Warn("status: disk usage failed", zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleWatchDirectoriesList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"directories": s.watch.Directories()})
}

type watchRequest struct {
	Path string `json:"path" validate:"required"`
	Sync *bool  `json:"sync,omitempty"`
}

func (s *Server) handleWatchDirectoriesAdd(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	var req watchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return
	}
	syncExisting := req.Sync == nil || *req.Sync
	s.logger.Debug("watch add directory request", zap.String("path", abs), zap.Bool("sync_existing", syncExisting))
	if err := s.watch.AddDirectory(abs, syncExisting); err != nil {
		s.logger.Error("watch add directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleWatchDirectoriesRemove(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" && r.ContentLength != 0 {
		var req watchRequest
		if err := s.decode(w, r, &req); err == nil {
			path = req.Path
		}
	}
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required (query or body)")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	s.logger.Debug("watch remove directory request", zap.String("path", abs))
	if err := s.watch.RemoveDirectory(abs); err != nil {
		s.logger.Error("watch remove directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

// persistWatchDirectories writes the current roots back to the config file.
func (s *Server) persistWatchDirectories() {
	if s.configPath == "" {
		return
	}
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.config.Watch.Directories = s.watch.Directories()
	if err := config.Save(s.configPath, s.config); err != nil {
		s.logger.Warn("failed to persist watch config", zap.Error(err))
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	respondJSON(w, status, data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
