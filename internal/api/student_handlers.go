package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	errorvalues "github.com/sekolahapps/kebiasaan/internal/error_values"
	"github.com/sekolahapps/kebiasaan/internal/service"
	"github.com/sekolahapps/kebiasaan/pkg/httputil"
)

type SubmitReportRequest struct {
	Items []service.SubmitItem `json:"items"`
}

// reportDate reads the optional ?date= query, defaulting to today in UTC.
func reportDate(r *http.Request) time.Time {
	if raw := r.URL.Query().Get("date"); raw != "" {
		if date, err := time.Parse(time.DateOnly, raw); err == nil {
			return date
		}
	}
	return time.Now().UTC().Truncate(24 * time.Hour)
}

func (s *Server) ListActiveHabits(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	habits, err := s.habitsService.ListHabits(ctx, true)
	if err != nil {
		logger.Error("getting habits list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting habits list", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"habits": habits,
	})
	logger.Info("habits provided")
}

func (s *Server) StudentDashboard(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("dashboard error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	dashboard, err := s.reportsService.Dashboard(ctx, user.ID, reportDate(r))
	if err != nil {
		logger.Error("dashboard error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while building dashboard", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, dashboard)
	logger.Info("student dashboard provided")
}

func (s *Server) ReportForm(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("report form error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	date := reportDate(r)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	habits, err := s.reportsService.ReportForm(ctx, user.ID, date)
	if err != nil {
		logger.Error("report form error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while building report form", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"date":   date.Format(time.DateOnly),
		"habits": habits,
	})
	logger.Info("report form provided")
}

func (s *Server) SubmitReport(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("report submit error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req SubmitReportRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("report submit error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	date := reportDate(r)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.reportsService.Submit(ctx, user.ID, date, req.Items)
	if err != nil {
		var fieldErr validator.FieldError
		switch {
		case errors.Is(err, errorvalues.ErrReportDateNotAllowed):
			logger.Error("report submit error: future date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "reports cannot be submitted for a future date", nil)
		case errors.Is(err, errorvalues.ErrDuplicateReportItem):
			logger.Error("report submit error: duplicated habit in batch")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "report lists the same habit twice", nil)
		case errors.As(err, &fieldErr):
			logger.Error("report submit error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid report fields", nil)
		case errors.Is(err, errorvalues.ErrHabitNotFound):
			logger.Error("report submit error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
		default:
			logger.Error("report submit error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while saving report", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"date":  date.Format(time.DateOnly),
		"saved": len(req.Items),
	})
	logger.Info("daily report saved")
}

func (s *Server) StudentHistory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("history error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days < 1 || days > 90 {
		days = 30
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	history, err := s.reportsService.History(ctx, user.ID, reportDate(r), days)
	if err != nil {
		logger.Error("history error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while building history", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, history)
	logger.Info("history provided")
}
