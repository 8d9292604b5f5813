package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/gobank/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// CustomerContextKey is the context key for the calling customer.
	CustomerContextKey ContextKey = "customer_id"

	// CustomerIDHeader names the calling customer when token auth is disabled.
	CustomerIDHeader = "X-Customer-ID"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Actor resolves the calling customer. With a verifier every request must carry
// a valid bearer token; without one the X-Customer-ID header is trusted.
// Requests without an identity pass through and handlers that need one reject them.
func Actor(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				if customerID := strings.TrimSpace(r.Header.Get(CustomerIDHeader)); customerID != "" {
					r = r.WithContext(WithCustomerID(r.Context(), customerID))
				}
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCustomerID(r.Context(), claims.CustomerID)))
		})
	}
}

// WithCustomerID stores the calling customer in ctx.
func WithCustomerID(ctx context.Context, customerID string) context.Context {
	return context.WithValue(ctx, CustomerContextKey, customerID)
}

// CustomerIDFromContext extracts the calling customer from context.
func CustomerIDFromContext(ctx context.Context) (string, bool) {
	customerID, ok := ctx.Value(CustomerContextKey).(string)
	return customerID, ok && customerID != ""
}
