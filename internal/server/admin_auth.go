package server

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

const adminPasswordHeader = "X-Admin-Password"

// adminAuthMiddleware checks the admin password header against a bcrypt
// hash. An empty hash disables every admin route.
func adminAuthMiddleware(passwordHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if passwordHash == "" {
				writeError(w, http.StatusForbidden, "admin API disabled")
				return
			}
			password := r.Header.Get(adminPasswordHeader)
			if password == "" {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
				writeError(w, http.StatusUnauthorized, "invalid admin password")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
