package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skillzio/evaluation-service/internal/permissions"
	"github.com/skillzio/evaluation-service/internal/repository"
	"github.com/skillzio/evaluation-service/pkg/logger/sl"
)

const requesterKey = contextKey("requester")

// Authenticator resolves the session cookie into a requester identity. The
// admin flag is always read from the user record, never from the token, so
// revoking admin takes effect on the next request.
type Authenticator struct {
	secret     []byte
	cookieName string
	users      repository.UserRepository
	log        *slog.Logger
}

func NewAuthenticator(secret, cookieName string, users repository.UserRepository, log *slog.Logger) *Authenticator {
	return &Authenticator{
		secret:     []byte(secret),
		cookieName: cookieName,
		users:      users,
		log:        log,
	}
}

// RequireSession rejects requests without a valid session cookie and stores
// the resolved requester in the request context.
func (a *Authenticator) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(a.cookieName)
		if err != nil {
			a.unauthorized(w)
			return
		}

		userID, err := a.parseSubject(cookie.Value)
		if err != nil {
			a.log.Debug("rejected session token", sl.Err(err))
			a.unauthorized(w)

			return
		}

		user, err := a.users.GetUserByID(r.Context(), userID)
		if err != nil {
			a.log.Debug("session user not found", slog.String("user_id", userID))
			a.unauthorized(w)

			return
		}

		req := permissions.Requester{ID: user.ID, IsAdmin: user.IsAdmin}
		ctx := context.WithValue(r.Context(), requesterKey, req)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) parseSubject(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject: %w", err)
	}

	return subject, nil
}

func (a *Authenticator) unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"authentication required"}`))
}

// requester returns the identity stored by RequireSession. Handlers behind
// the middleware can rely on it being present.
func requester(r *http.Request) permissions.Requester {
	req, _ := r.Context().Value(requesterKey).(permissions.Requester)

	return req
}
