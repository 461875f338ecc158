package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/sekolahapps/kebiasaan/internal/error_values"
	"github.com/sekolahapps/kebiasaan/internal/router"
	"github.com/sekolahapps/kebiasaan/internal/service"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
	"github.com/sekolahapps/kebiasaan/pkg/httputil"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req LoginRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("login error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	profile, err := s.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrWrongCredentials):
			logger.Error("login error: wrong credentials")
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, "invalid email or password", nil)
			return
		default:
			logger.Error("login error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during login", nil)
			return
		}
	}
	token, err := s.jwtService.GenerateToken(profile)
	if err != nil {
		logger.Error("login error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"token":   token,
		"profile": profile,
		"home":    router.Home(profile.Role),
	})
	logger.Info("successful login")
}

// Logout is synchronous: the session is gone before the response is
// written, the revocation write never outlives the request.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("logout error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	claims, err := GetClaimsFromContext(r)
	if err != nil {
		logger.Error("logout error: no claims in context")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	expiresAt := time.Now()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	s.sessions.Logout(ctx, user.ID, claims.ID, expiresAt)
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"message": "signed out",
	})
	logger.Info("successful logout")
}

func (s *Server) Session(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("session error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"state":   s.sessions.State().String(),
		"profile": user,
		"home":    router.Home(user.Role),
	})
}

func (s *Server) Profile(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user, err := GetUserFromContext(r)
	if err != nil {
		logger.Error("profile error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	detail, err := s.authService.ProfileDetail(ctx, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrProfileNotFound):
			logger.Error("profile error: unexist profile")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "profile doesn't exist", nil)
			return
		default:
			logger.Error("profile error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting profile", nil)
			return
		}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"profile":       detail,
		"academic_year": service.AcademicYear(time.Now()),
	})
	logger.Info("profile provided")
}

// Navigate serves the page paths. Credentials here are optional: a
// request without a resolvable profile is treated as anonymous and
// routed accordingly instead of rejected.
func (s *Server) Navigate(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	user := s.optionalUser(r)
	decision := router.Resolve(user, r.URL.Path)
	if !decision.Allow {
		logger.Info("navigation redirected",
			slog.String("path", r.URL.Path),
			slog.String("to", decision.Redirect))
		http.Redirect(w, r, decision.Redirect, http.StatusFound)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"view": r.URL.Path,
	})
}

// optionalUser resolves the bearer token without failing the request.
// Any defect in the chain, from a missing header to a failed profile
// lookup, yields nil and therefore an anonymous visitor.
func (s *Server) optionalUser(r *http.Request) *entity.Profile {
	tokenString, err := GetTokenFromHeader(r)
	if err != nil {
		return nil
	}
	claims, err := s.jwtService.ParseToken(tokenString)
	if err != nil {
		return nil
	}
	now := time.Now()
	if claims.ExpiresAt.Time.Before(now) || claims.NotBefore.Time.After(now) {
		return nil
	}
	if s.sessions.IsRevoked(r.Context(), claims.ID) {
		return nil
	}
	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	return s.sessions.Resolve(ctx, uid)
}
