package api

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/TimurManjosov/volumediscount/internal/audit"
)

// authAdmin guards settings writes and audit reads with the admin bearer key.
func (s *Server) authAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, token, _ := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
		got := strings.TrimSpace(token)
		if !strings.EqualFold(scheme, "Bearer") || got == "" {
			s.auditAuthFailure(r, "missing bearer token")
			UnauthorizedError(w, r, "missing bearer token")
			return
		}
		// constant-time compare
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.adminAPIKey)) != 1 {
			s.auditAuthFailure(r, "invalid token")
			ForbiddenError(w, r, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) auditAuthFailure(r *http.Request, reason string) {
	shopID := chi.URLParam(r, "shopID")
	if unescaped, err := url.PathUnescape(shopID); err == nil {
		shopID = unescaped
	}
	s.audit.Log(audit.FromRequest(r, audit.ActionAuthFailed, shopID).Failed(reason))
}
