package api

import (
	"context"
	"net/http"
	"time"

	"github.com/limbo/habitgrid/pkg/httputil"
)

func (s *Server) ToggleEntry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeServiceError(w, logger, "toggle entry", err)
		return
	}
	id, ok := habitIDFromPath(w, r, "toggle entry")
	if !ok {
		return
	}
	loc, err := s.requestLocation(r)
	if err != nil {
		writeServiceError(w, logger, "toggle entry", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	res, err := s.habitsService.ToggleEntry(ctx, id, uid, r.PathValue("date"), loc)
	if err != nil {
		writeServiceError(w, logger, "toggle entry", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, res)
	logger.Info("entry toggled")
}

func (s *Server) HabitStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeServiceError(w, logger, "habit stats", err)
		return
	}
	id, ok := habitIDFromPath(w, r, "habit stats")
	if !ok {
		return
	}
	loc, err := s.requestLocation(r)
	if err != nil {
		writeServiceError(w, logger, "habit stats", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	stats, err := s.habitsService.HabitStats(ctx, id, uid, r.URL.Query().Get("month"), loc)
	if err != nil {
		writeServiceError(w, logger, "habit stats", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, stats)
}

func (s *Server) MonthCalendar(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeServiceError(w, logger, "month calendar", err)
		return
	}
	id, ok := habitIDFromPath(w, r, "month calendar")
	if !ok {
		return
	}
	loc, err := s.requestLocation(r)
	if err != nil {
		writeServiceError(w, logger, "month calendar", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	cal, err := s.habitsService.MonthCalendar(ctx, id, uid, r.URL.Query().Get("month"), loc)
	if err != nil {
		writeServiceError(w, logger, "month calendar", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, cal)
}

func (s *Server) WeekBoard(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeServiceError(w, logger, "week board", err)
		return
	}
	loc, err := s.requestLocation(r)
	if err != nil {
		writeServiceError(w, logger, "week board", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	board, err := s.habitsService.WeekBoard(ctx, uid, r.URL.Query().Get("date"), loc)
	if err != nil {
		writeServiceError(w, logger, "week board", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, board)
}
