package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"gestaorh-checkout-api/models"
	"gestaorh-checkout-api/services/auth"
	"gestaorh-checkout-api/utils"
)

type contextKey string

const CompanyContextKey contextKey = "company"

// AuthMiddleware exige um token JWT válido emitido pelo portal.
func AuthMiddleware(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Printf("Missing Authorization header from %s", r.RemoteAddr)
				utils.SendErrorResponse(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Printf("Invalid Authorization header format from %s", r.RemoteAddr)
				utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			company, err := jwtService.ValidateToken(parts[1])
			if err != nil {
				log.Printf("Token validation failed from %s: %v", r.RemoteAddr, err)

				var message string
				switch err {
				case auth.ErrTokenExpired:
					message = "Token expired"
				case auth.ErrInvalidToken:
					message = "Invalid token"
				default:
					message = "Authentication failed"
				}

				utils.SendErrorResponse(w, http.StatusUnauthorized, message)
				return
			}

			ctx := context.WithValue(r.Context(), CompanyContextKey, company)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCompanyFromContext extrai a empresa autenticada do contexto.
func GetCompanyFromContext(ctx context.Context) *models.Company {
	company, ok := ctx.Value(CompanyContextKey).(*models.Company)
	if !ok {
		return nil
	}
	return company
}

// LoggingMiddleware registra método, rota, status e duração de cada request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		log.Printf("%s %s %d %v %s",
			r.Method, r.RequestURI, wrapper.status, time.Since(start), r.UserAgent())
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
