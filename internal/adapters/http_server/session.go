package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/reqctx"
)

// Session requires the admin's access token, from the Authorization header or
// the accessToken cookie. The backend verifies signatures; here the claims are
// only read so an expired token gets 401 before any backend call.
func Session(now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	parser := jwt.NewParser()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerToken(r)
			if tok == "" {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "sign in required")
				return
			}
			// opaque tokens pass through untouched
			claims := jwt.MapClaims{}
			if _, _, err := parser.ParseUnverified(tok, claims); err == nil {
				if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && !exp.After(now()) {
					writeProblem(w, http.StatusUnauthorized, "Unauthorized", "session expired")
					return
				}
			}

			ctx := reqctx.WithToken(r.Context(), tok)
			ctx = reqctx.WithSession(ctx, sessionKey(tok))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
	}
	if c, err := r.Cookie("accessToken"); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

// sessionKey is a stable non-secret handle for per-admin state.
func sessionKey(tok string) string {
	sum := sha1.Sum([]byte(tok))
	return hex.EncodeToString(sum[:])
}
