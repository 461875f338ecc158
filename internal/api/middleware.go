package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/sekolahapps/kebiasaan/internal/error_values"
	"github.com/sekolahapps/kebiasaan/internal/router"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
	"github.com/sekolahapps/kebiasaan/pkg/httputil"
)

var (
	requestIDKContextKey = "Request-ID"
	loggerContextKey     = "Logger"
	userContextKey       = "User"
	claimsContextKey     = "Claims"
)

func (s *Server) RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.New()
		ctx := context.WithValue(r.Context(), requestIDKContextKey, reqID.String())
		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) SettingUpLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.Default()
		reqID, ok := r.Context().Value(requestIDKContextKey).(string)
		if ok && reqID != "" {
			logger = logger.With(slog.String("request_id", reqID))
		}
		logger = logger.With(slog.String("from", r.RemoteAddr))
		ctx := context.WithValue(r.Context(), loggerContextKey, logger)
		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) LoggerExtensionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLoggerFromCtx(r.Context())
		user, ok := r.Context().Value(userContextKey).(*entity.Profile)
		if ok && user != nil {
			logger = logger.With(slog.String("uid", user.ID.String()), slog.String("role", string(user.Role)))
		}
		ctx := context.WithValue(r.Context(), loggerContextKey, logger)
		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
	})
}

// AuthMiddleware resolves the bearer token to an application profile. A
// valid credential without a resolvable profile is rejected exactly like
// a missing one: being signed in at the credential layer is not enough
// to be an application user.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLoggerFromCtx(r.Context())
		// Getting token from header
		tokenString, err := GetTokenFromHeader(r)
		if err != nil {
			logger.Error("auth failed: no token provided")
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, "authorization failed: invalid token", nil)
			return
		}
		// Getting claims from token string
		tokenClaims, err := s.jwtService.ParseToken(tokenString)
		if err != nil {
			switch {
			case errors.Is(err, errorvalues.ErrInvalidToken):
				logger.Error("auth failed: error parsing token")
				httputil.WriteErrorResponse(w, http.StatusUnauthorized, "authorization failed: invalid token", nil)
				return
			default:
				logger.Error("auth failed: token rejected", slog.String("error", err.Error()))
				httputil.WriteErrorResponse(w, http.StatusUnauthorized, "authorization failed: invalid token", nil)
				return
			}
		}
		// Assuring if token is alive
		now := time.Now()
		if tokenClaims.ExpiresAt.Time.Before(now) || tokenClaims.NotBefore.Time.After(now) {
			logger.Error("tried to auth with expired or not ready token")
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, "token expired or not ready", nil)
			return
		}
		if s.sessions.IsRevoked(r.Context(), tokenClaims.ID) {
			logger.Error("tried to auth with a signed-out token")
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, "token has been revoked", nil)
			return
		}
		uid, err := uuid.Parse(tokenClaims.UserID)
		if err != nil {
			logger.Error("invalid uid in token claims")
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, "invalid token payload", nil)
			return
		}
		// Resolving the subject to its profile. Resolution failure
		// degrades to anonymous, never to an authenticated shell.
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		profile := s.sessions.Resolve(ctx, uid)
		if profile == nil {
			logger.Error("session has no resolvable profile")
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no profile for this account", nil)
			return
		}
		reqCtx := context.WithValue(r.Context(), userContextKey, profile)
		reqCtx = context.WithValue(reqCtx, claimsContextKey, tokenClaims)
		r = r.WithContext(reqCtx)
		next.ServeHTTP(w, r)
	})
}

// RoleGuardMiddleware enforces the role router's per-path role table on
// the API surface.
func (s *Server) RoleGuardMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLoggerFromCtx(r.Context())
		user, err := GetUserFromContext(r)
		if err != nil {
			logger.Error("role guard without authenticated user")
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
			return
		}
		path := strings.TrimPrefix(r.URL.Path, "/api/v1")
		if required, ok := router.RequiredRole(path); ok && user.Role != required {
			logger.Error("role guard rejected request",
				slog.String("required_role", string(required)))
			httputil.WriteErrorResponse(w, http.StatusForbidden, "this section is not available for your role", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerContextKey).(*slog.Logger)
	if ok {
		return logger
	}
	return slog.Default()
}

func GetTokenFromHeader(r *http.Request) (string, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		return "", errorvalues.ErrInvalidToken
	}
	parts := strings.Split(token, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errorvalues.ErrInvalidToken
	}
	return parts[1], nil
}

func GetUserFromContext(r *http.Request) (*entity.Profile, error) {
	user, ok := r.Context().Value(userContextKey).(*entity.Profile)
	if !ok || user == nil {
		return nil, errors.New("user invalid or doesn't exist")
	}
	return user, nil
}

func GetClaimsFromContext(r *http.Request) (*JWTClaims, error) {
	claims, ok := r.Context().Value(claimsContextKey).(*JWTClaims)
	if !ok || claims == nil {
		return nil, errors.New("claims invalid or don't exist")
	}
	return claims, nil
}
