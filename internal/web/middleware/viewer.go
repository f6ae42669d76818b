package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/scoreboard/internal/dependencies/random"
	"github.com/mcoot/scoreboard/internal/model"
)

type contextKey string

const (
	viewerCookieName            = "viewer"
	viewerContextKey contextKey = "viewer"
)

// GetViewer retrieves the viewer ID from the request context.
// Returns an empty ID if the Viewer middleware did not run.
func GetViewer(ctx context.Context) model.ViewerID {
	viewer, _ := ctx.Value(viewerContextKey).(model.ViewerID)
	return viewer
}

// Viewer returns middleware that identifies the browser by a long-lived
// cookie, issuing a new ID on first visit. The ID scopes the add-player
// draft so each viewer types independently.
func Viewer(rnd random.Random) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var viewer model.ViewerID
			if cookie, err := r.Cookie(viewerCookieName); err == nil && cookie.Value != "" {
				viewer = model.ViewerID(cookie.Value)
			} else {
				viewer = model.ViewerID(rnd.UUID())
				http.SetCookie(w, &http.Cookie{
					Name:     viewerCookieName,
					Value:    string(viewer),
					Path:     "/",
					MaxAge:   86400 * 30, // 30 days
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), viewerContextKey, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithViewer returns a copy of ctx carrying the viewer ID
func WithViewer(ctx context.Context, viewer model.ViewerID) context.Context {
	return context.WithValue(ctx, viewerContextKey, viewer)
}
