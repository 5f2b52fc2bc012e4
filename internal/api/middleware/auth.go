package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/postgram/internal/config"
	"github.com/dom/postgram/internal/domain"
	"github.com/dom/postgram/internal/service"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	UserKey contextKey = "user"
)

// SessionResolver is the part of the auth service the session middleware
// needs. *service.AuthService implements it.
type SessionResolver interface {
	ResolveAccessToken(ctx context.Context, accessToken string) (*domain.User, error)
	RefreshSession(ctx context.Context, refreshToken string) (*service.AuthResult, error)
}

// Session requires a signed in user. A valid access cookie is enough. When
// it is missing, expired or invalid the refresh cookie is verified instead
// and, if it names an existing user, a new token pair is issued and set on
// the response before the handler runs. Any failure ends the request with
// 401.
func Session(resolver SessionResolver, cfg *config.Config, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolveSession(w, r, resolver, cfg)
			if err != nil {
				status, message := sessionFailure(err)
				if status == http.StatusInternalServerError {
					log.Error().Err(err).Str("path", r.URL.Path).Msg("session resolution failed")
				} else {
					log.Debug().Err(err).Str("path", r.URL.Path).Msg("request rejected")
				}
				writeError(w, status, message)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// OptionalSession resolves the user the same way Session does but never
// rejects the request. Handlers check GetUser to see if anyone is signed in.
func OptionalSession(resolver SessionResolver, cfg *config.Config, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasSessionCookie(r) {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolveSession(w, r, resolver, cfg)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("continuing anonymously")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func resolveSession(w http.ResponseWriter, r *http.Request, resolver SessionResolver, cfg *config.Config) (*domain.User, error) {
	if token := cookieValue(r, AccessTokenCookie); token != "" {
		user, err := resolver.ResolveAccessToken(r.Context(), token)
		if err == nil {
			return user, nil
		}
		if domain.Kind(err) == nil {
			return nil, err
		}
	}

	result, err := resolver.RefreshSession(r.Context(), cookieValue(r, RefreshTokenCookie))
	if err != nil {
		return nil, err
	}

	SetSessionCookies(w, cfg, result.Tokens)
	return result.User, nil
}

func sessionFailure(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNoRefreshToken):
		return http.StatusUnauthorized, "Unauthorized: no refresh token"
	case errors.Is(err, service.ErrStaleRefreshToken):
		return http.StatusUnauthorized, "Unauthorized: stale refresh token"
	case errors.Is(err, service.ErrInvalidRefreshToken), errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized: invalid refresh token"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func hasSessionCookie(r *http.Request) bool {
	return cookieValue(r, AccessTokenCookie) != "" || cookieValue(r, RefreshTokenCookie) != ""
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserKey).(*domain.User)
	return user, ok && user != nil
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	user, ok := GetUser(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return user.ID, true
}
