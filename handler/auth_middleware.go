package handler

import (
	"context"
	"go-ledger/common"
	"go-ledger/model"
	"go-ledger/service"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	UsernameKey contextKey = "username"
)

// TokenVerifier validates a bearer token and the session behind it.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, tokenString string) (*model.AppClaims, error)
}

// AuthMiddleware puts the caller's user id into the request context. It is the
// only source of the acting user id handed to the transfer engine.
func AuthMiddleware(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				err := common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil).WithKind("Unauthorized")
				err.Send(w)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				err := common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil).WithKind("Unauthorized")
				err.Send(w)
				return
			}

			claims, err := tokens.VerifyToken(r.Context(), headerParts[1])
			if service.KindOf(err) == service.KindStorageUnavailable {
				serviceError(err, "Could not verify session").Send(w)
				return
			}
			if err != nil || claims.UserID <= 0 {
				appErr := common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", err).WithKind("Unauthorized")
				appErr.Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UsernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userIDFrom(r *http.Request) (int64, *common.AppError) {
	userID, ok := r.Context().Value(UserIDKey).(int64)
	if !ok {
		return 0, common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil).WithKind("Unauthorized")
	}
	return userID, nil
}
