package validators

import (
	"net/http"
	"strings"
)

// BearerToken extracts the bearer credential from the Authorization
// header. An empty string means no credential was presented; malformed
// schemes are treated the same way so callers decide whether auth is
// mandatory.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return ""
	}
	return strings.TrimSpace(raw[7:])
}
