package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/sekolahapps/kebiasaan/internal/error_values"
	"github.com/sekolahapps/kebiasaan/pkg/httputil"
)

type AddNoteRequest struct {
	Note string `json:"note"`
}

func (s *Server) ClassDashboard(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("class dashboard error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	dashboard, err := s.classService.Dashboard(ctx, user, reportDate(r))
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrNoClassAssigned):
			logger.Error("class dashboard error: no class assigned")
			httputil.WriteErrorResponse(w, http.StatusConflict, "no class assigned to this account", nil)
		default:
			logger.Error("class dashboard error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while building class dashboard", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, dashboard)
	logger.Info("class dashboard provided")
}

func (s *Server) StudentDetail(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("student detail error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	studentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("student detail error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid student id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	detail, err := s.classService.StudentDetail(ctx, user, studentID, reportDate(r))
	if err != nil {
		s.writeClassGuardError(w, logger, "student detail error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, detail)
	logger.Info("student detail provided")
}

func (s *Server) StudentNotes(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("notes error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	studentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("notes error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid student id in path value", nil)
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	notes, err := s.classService.Notes(ctx, user, studentID, limit)
	if err != nil {
		s.writeClassGuardError(w, logger, "notes error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"notes": notes,
	})
	logger.Info("notes provided")
}

func (s *Server) AddStudentNote(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("add note error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	studentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("add note error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid student id in path value", nil)
		return
	}
	var req AddNoteRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("add note error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.classService.AddNote(ctx, user, studentID, req.Note)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEmptyNote) {
			logger.Error("add note error: empty note")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "note text is empty", nil)
			return
		}
		s.writeClassGuardError(w, logger, "add note error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"message": "note added",
	})
	logger.Info("note added")
}

// writeClassGuardError maps class membership failures to responses. A
// student outside the teacher's class answers exactly like a missing
// one, membership is not leaked.
func (s *Server) writeClassGuardError(w http.ResponseWriter, logger *slog.Logger, prefix string, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrStudentNotFound),
		errors.Is(err, errorvalues.ErrNotAStudent),
		errors.Is(err, errorvalues.ErrWrongClass):
		logger.Error(prefix + ": student not in class")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "student doesn't exist in your class", nil)
	case errors.Is(err, errorvalues.ErrNoClassAssigned):
		logger.Error(prefix + ": no class assigned")
		httputil.WriteErrorResponse(w, http.StatusConflict, "no class assigned to this account", nil)
	default:
		logger.Error(prefix+": service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error", nil)
	}
}
