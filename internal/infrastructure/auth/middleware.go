package auth

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"

	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
)

type ctxKey struct{}

// UserIDFromContext returns the authenticated user, if any.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok
}

func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// Middleware authenticates Bearer tokens. A request without a token passes
// through anonymously unless required is set and it is a mutating request
// for an action outside public.
func Middleware(tokens TokenValidator, required bool, public ...string) func(http.Handler) http.Handler {
	publicActions := make(map[string]bool, len(public))
	for _, a := range public {
		publicActions[a] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				if required && isMutating(r.Method) && !publicActions[r.URL.Query().Get("action")] {
					unauthorized(w, "authorization header missing")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "invalid authorization header")
				return
			}

			userID, err := tokens.Validate(r.Context(), parts[1])
			if err != nil {
				if !stderrors.Is(err, pkgerrors.ErrUnauthorized) {
					slog.Error("token validation failed", "error", err)
				}
				unauthorized(w, "invalid or revoked token")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
