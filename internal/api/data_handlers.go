package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/limbo/habitgrid/internal/service"
	"github.com/limbo/habitgrid/pkg/httputil"
)

// MaxImportSize bounds the body of an import request.
const MaxImportSize = 10 << 20

func (s *Server) ExportData(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeServiceError(w, logger, "export", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*30)
	defer cancel()
	doc, err := s.habitsService.ExportData(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "export", err)
		return
	}
	body, err := service.EncodeExport(doc)
	if err != nil {
		logger.Error("export error: encoding document", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error", nil)
		return
	}
	httputil.WriteJSONAttachment(w, service.BackupKey(uid, doc.ExportedAt), body)
	logger.Info("data exported")
}

func (s *Server) ImportData(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeServiceError(w, logger, "import", err)
		return
	}
	var doc service.ImportDocument
	body := http.MaxBytesReader(w, r.Body, MaxImportSize)
	defer body.Close()
	if err = sonic.ConfigDefault.NewDecoder(body).Decode(&doc); err != nil {
		logger.Error("import error: invalid body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid import document", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*30)
	defer cancel()
	if err = s.habitsService.ImportData(ctx, uid, &doc); err != nil {
		writeServiceError(w, logger, "import", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("data imported")
}

func (s *Server) BackupData(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeServiceError(w, logger, "backup", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*30)
	defer cancel()
	key, err := s.habitsService.BackupData(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "backup", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{"key": key})
	logger.Info("backup uploaded", slog.String("key", key))
}
