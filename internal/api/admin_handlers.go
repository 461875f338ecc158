package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/sekolahapps/kebiasaan/internal/error_values"
	"github.com/sekolahapps/kebiasaan/internal/service"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
	"github.com/sekolahapps/kebiasaan/pkg/httputil"
)

type HabitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}

type CreateAccountRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	SchoolID *string `json:"school_id"`
	ClassID  *string `json:"class_id"`
}

func (s *Server) AdminOverview(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	overview, err := s.adminService.Overview(ctx, reportDate(r))
	if err != nil {
		logger.Error("overview error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while building overview", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, overview)
	logger.Info("admin overview provided")
}

func (s *Server) ListAllHabits(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	habits, err := s.habitsService.ListHabits(ctx, false)
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

func (s *Server) CreateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req HabitRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create habit error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	habit, err := s.habitsService.CreateHabit(ctx, &service.HabitRequest{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		var fieldErr validator.FieldError
		switch {
		case errors.Is(err, errorvalues.ErrHabitExists):
			logger.Error("create habit error: attempt to create existed habit")
			httputil.WriteErrorResponse(w, http.StatusConflict, "habit with such title already exists", nil)
		case errors.As(err, &fieldErr):
			logger.Error("create habit error: validation failed")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit fields", err)
		default:
			logger.Error("create habit error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating habit", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, habit)
	logger.Info("habit created")
}

func (s *Server) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("update habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	var req HabitRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update habit error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	habit, err := s.habitsService.UpdateHabit(ctx, id, &service.HabitRequest{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		var fieldErr validator.FieldError
		switch {
		case errors.Is(err, errorvalues.ErrHabitNotFound):
			logger.Error("update habit error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrHabitExists):
			logger.Error("update habit error: duplicate title")
			httputil.WriteErrorResponse(w, http.StatusConflict, "habit with such title already exists", nil)
		case errors.As(err, &fieldErr):
			logger.Error("update habit error: validation failed")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit fields", err)
		default:
			logger.Error("update habit error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating habit", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
	logger.Info("habit updated")
}

func (s *Server) SetHabitActive(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("habit activation error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	var req SetActiveRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("habit activation error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.habitsService.SetHabitActive(ctx, id, req.Active)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrHabitNotFound):
			logger.Error("habit activation error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
		default:
			logger.Error("habit activation error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating habit", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"habit_id": id.String(),
		"active":   req.Active,
	})
	logger.Info("habit activation changed")
}

func (s *Server) CreateAccount(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req CreateAccountRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create account error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	schoolID, err := parseOptionalUUID(req.SchoolID)
	if err != nil {
		logger.Error("create account error: invalid school id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid school id", nil)
		return
	}
	classID, err := parseOptionalUUID(req.ClassID)
	if err != nil {
		logger.Error("create account error: invalid class id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid class id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	profile, err := s.authService.CreateAccount(ctx, &service.CreateAccountRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
		SchoolID: schoolID,
		ClassID:  classID,
	})
	if err != nil {
		var fieldErr validator.FieldError
		switch {
		case errors.Is(err, errorvalues.ErrEmailExists):
			logger.Error("create account error: existed email")
			httputil.WriteErrorResponse(w, http.StatusConflict, "profile with such email already exists", nil)
		case errors.Is(err, errorvalues.ErrUnknownRole):
			logger.Error("create account error: unknown role")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "unknown role", nil)
		case errors.As(err, &fieldErr):
			logger.Error("create account error: validation failed")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid account fields", err)
		default:
			logger.Error("create account error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating account", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"uid":  profile.ID.String(),
		"role": profile.Role,
	})
	logger.Info("account created", slog.String("new_uid", profile.ID.String()))
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
