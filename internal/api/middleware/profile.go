package middleware

import (
	"net/http"
	"strings"

	"github.com/ali-aktas/hocalingo-api/internal/api/shared"
)

// ProfileHeader is the request header naming the learner profile. Requests
// without it fall back to the configured default profile, which is the only
// one a single-user deployment ever has.
const ProfileHeader = "X-Profile-ID"

// ProfileMiddleware resolves the learner profile for the request and stores
// it on the context. Every store call downstream takes the profile ID
// explicitly, so this is the single place where "which learner" is decided.
type ProfileMiddleware struct {
	defaultProfileID string
}

// NewProfileMiddleware creates a ProfileMiddleware with the given fallback
// profile.
func NewProfileMiddleware(defaultProfileID string) *ProfileMiddleware {
	return &ProfileMiddleware{defaultProfileID: defaultProfileID}
}

// Resolve is the middleware function. A blank or missing header resolves to
// the default profile.
func (m *ProfileMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileID := strings.TrimSpace(r.Header.Get(ProfileHeader))
		if profileID == "" {
			profileID = m.defaultProfileID
		}

		ctx := shared.SetProfileID(r.Context(), profileID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
